package extraction

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const reservationScreen = "* Ciudad de origen * Ciudad de destino\n" +
	"Bogota D.C. (Colombia) San Andres Islas (CO)\n" +
	"* Cantidad de habitaciones\n" +
	"7 Habitaciones\n" +
	"Habitacion 1: Adultos Ninos Infantes\n" +
	"2 0 0\n" +
	"Habitacion 2: Adultos Ninos Infantes\n" +
	"2 0 0\n" +
	"Habitacion 3: Adultos Ninos Infantes\n" +
	"0 0 0\n" +
	"Habitacion 4: Adultos Ninos Infantes\n" +
	"0 0 0\n" +
	"Habitacion 5: Adultos Ninos Infantes\n" +
	"0 0 0\n" +
	"Habitacion 6: Adultos Ninos Infantes\n" +
	"2 0 0\n" +
	"Habitacion 7: Adultos Ninos Infantes\n" +
	"1 0 0\n" +
	"* Fecha salida * Fecha regreso\n" +
	"20260111 20260115\n" +
	"Moneda\n" +
	"PESOS (COP)\n"

var _ = Describe("Parse", func() {
	var (
		text   string
		result *Result
	)

	JustBeforeEach(func() {
		result = Parse(text, DefaultConfig())
	})

	When("parsing a full reservation screen", func() {
		BeforeEach(func() {
			text = reservationScreen
		})

		It("should resolve the cities from the structured line", func() {
			Expect(result.Origin).To(HaveValue(Equal("Bogotá")))
			Expect(result.Destination).To(HaveValue(Equal("San Andrés Islas")))
		})

		It("should read the room count", func() {
			Expect(result.RoomsCount).To(HaveValue(Equal(7)))
			Expect(result.Rooms).To(HaveLen(7))
		})

		It("should read each room triplet", func() {
			Expect(result.Rooms[1]).To(Equal(newRoom(2, 2, 0, 0)))
			Expect(result.Rooms[2]).To(Equal(newRoom(3, 0, 0, 0)))
			Expect(result.Rooms[6]).To(Equal(newRoom(7, 1, 0, 0)))
		})

		It("should convert compact dates", func() {
			Expect(result.DepartureDate).To(HaveValue(Equal("2026-01-11")))
			Expect(result.ReturnDate).To(HaveValue(Equal("2026-01-15")))
		})

		It("should detect the currency", func() {
			Expect(result.Currency).To(HaveValue(Equal("COP")))
		})

		It("should compute the totals", func() {
			Expect(result.Totals).To(Equal(Totals{Adults: 7, Passengers: 7}))
		})

		It("should leave plan and flight type empty", func() {
			Expect(result.Plan).To(BeNil())
			Expect(result.FlightType).To(BeNil())
		})

		It("should trace every city stage", func() {
			Expect(result.Debug.RoomsMethod).To(Equal("block_regex"))
			Expect(result.Debug.RoomsParsed).To(HaveLen(7))
			Expect(result.Debug.CityStages).To(HaveLen(4))
			Expect(result.Debug.CityStages[0].Origin).To(BeNil())
			Expect(result.Debug.CityStages[0].Destination).To(HaveValue(Equal("Bogota San Andres Islas")))
			Expect(result.Debug.CityStages[1].Origin).To(HaveValue(Equal("Bogotá")))
		})

		It("should be deterministic", func() {
			Expect(Parse(text, DefaultConfig())).To(Equal(result))
		})

		It("should be safe for concurrent callers", func() {
			var wg sync.WaitGroup
			results := make([]*Result, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = Parse(text, DefaultConfig())
				}(i)
			}
			wg.Wait()
			for _, r := range results {
				Expect(r).To(Equal(result))
			}
		})
	})

	When("the cities follow their labels", func() {
		BeforeEach(func() {
			text = "Ciudad de origen: Cali\nCiudad de destino: Cancun (Mexico)\nCantidad de habitaciones\n1 Habitaciones\nHabitacion 1: 2 1 0"
		})

		It("should canonicalize the destination", func() {
			Expect(result.Origin).To(HaveValue(Equal("Cali")))
			Expect(result.Destination).To(HaveValue(Equal("Cancún")))
		})

		It("should read the single room", func() {
			Expect(result.Rooms).To(Equal([]Room{newRoom(1, 2, 1, 0)}))
			Expect(result.Totals.Passengers).To(Equal(3))
		})
	})

	When("the cities are written in upper case with accents", func() {
		BeforeEach(func() {
			text = "Ciudad de origen: MEDELLÍN\nCiudad de destino\nCOVEÑAS (CO)\nCantidad de habitaciones"
		})

		It("should keep the accented words whole", func() {
			Expect(result.Origin).To(HaveValue(Equal("MEDELLÍN")))
			Expect(result.Destination).To(HaveValue(Equal("Coveñas")))
		})
	})

	When("the destination is an upper-case accented name", func() {
		BeforeEach(func() {
			text = "Ciudad de destino\nCANCÚN\nCantidad de habitaciones"
		})

		It("should canonicalize it", func() {
			Expect(result.Destination).To(HaveValue(Equal("Cancún")))
		})
	})

	When("parsing an already normalized city name", func() {
		BeforeEach(func() {
			text = "Ciudad de origen: Bogotá\nCiudad de destino: San Andrés Islas"
		})

		It("should return the same names", func() {
			Expect(result.Origin).To(HaveValue(Equal("Bogotá")))
			Expect(result.Destination).To(HaveValue(Equal("San Andrés Islas")))
		})
	})

	When("the plan and flight markers are present", func() {
		BeforeEach(func() {
			text = "Plan completo | Vuelo comercial | Vuelo OnVacation"
		})

		It("should let the OnVacation flight win", func() {
			Expect(result.Plan).To(HaveValue(Equal("Plan completo")))
			Expect(result.FlightType).To(HaveValue(Equal("Vuelo Onvacation")))
		})
	})

	When("only a commercial flight is mentioned", func() {
		BeforeEach(func() {
			text = "Vuelo comercial"
		})

		It("should report it", func() {
			Expect(result.FlightType).To(HaveValue(Equal("Vuelo comercial")))
		})
	})

	When("there is a single date", func() {
		BeforeEach(func() {
			text = "Fecha salida 2026-03-02"
		})

		It("should set only the departure", func() {
			Expect(result.DepartureDate).To(HaveValue(Equal("2026-03-02")))
			Expect(result.ReturnDate).To(BeNil())
		})
	})

	When("the text mixes date formats", func() {
		BeforeEach(func() {
			text = "Fecha salida 20260111 Fecha regreso 2026-01-20"
		})

		It("should list hyphenated dates first", func() {
			Expect(result.DepartureDate).To(HaveValue(Equal("2026-01-20")))
			Expect(result.ReturnDate).To(HaveValue(Equal("2026-01-11")))
		})
	})

	When("no currency is present", func() {
		BeforeEach(func() {
			text = "Moneda USD\nHabitacion 1\n2 0 0"
		})

		It("should leave the currency empty", func() {
			Expect(result.Currency).To(BeNil())
		})

		It("should size rooms by the blocks found", func() {
			Expect(result.RoomsCount).To(BeNil())
			Expect(result.Rooms).To(HaveLen(1))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("should return an empty result", func() {
			Expect(result.Fields).To(Equal(Fields{}))
			Expect(result.Rooms).To(BeEmpty())
			Expect(result.Totals).To(Equal(Totals{}))
		})
	})
})

var _ = Describe("ParseRaw", func() {
	It("should apply a decoded config", func() {
		result, err := ParseRaw("Habitacion 1: 3 8 0 0", map[string]any{"digit_map": map[string]any{"8": "4"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rooms).To(Equal([]Room{newRoom(1, 3, 4, 0)}))
	})

	It("returns a ConfigError without a result", func() {
		result, err := ParseRaw("Habitacion 1: 3 8 0 0", map[string]any{"max_value": "many"})
		var cfgErr *ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(result).To(BeNil())
	})
})

var _ = Describe("Parser options", func() {
	It("should use custom dictionaries", func() {
		dict, err := LoadDictionary([]byte(`{"cartagena": "Cartagena"}`))
		Expect(err).NotTo(HaveOccurred())
		p := New(WithDestinationCities(dict))
		result := p.Parse("Ciudad de origen: Cali\nCiudad de destino: CARTAGENA (CTG)", DefaultConfig())
		Expect(result.Destination).To(HaveValue(Equal("Cartagena")))
	})
})
