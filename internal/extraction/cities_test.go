package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("city stages", func() {
	var p *Parser

	BeforeEach(func() {
		p = New()
	})

	Describe("labelAnchored", func() {
		It("should read each label up to the nearest end marker", func() {
			doc := Normalize("Ciudad de origen: Cali (Colombia)\nCiudad de destino: Cancun CUN\nFecha salida 2026-01-11")
			Expect(p.labelAnchored(doc, cityPair{})).To(Equal(cityPair{origin: "Cali", destination: "Cancun"}))
		})

		It("should leave a pair empty without labels", func() {
			Expect(p.labelAnchored(Normalize("Moneda COP"), cityPair{})).To(Equal(cityPair{}))
		})
	})

	Describe("structuredLine", func() {
		It("should split on the country and code markers", func() {
			doc := Normalize("Ciudad de origen Ciudad de destino\nPereira (Colombia) PEI Santa Marta (Colombia) SMR")
			pair := p.structuredLine(doc, cityPair{destination: "Pereira"})
			Expect(pair).To(Equal(cityPair{origin: "Pereira", destination: "Santa Marta"}))
		})

		It("should fall back to the dictionaries", func() {
			doc := Normalize("* Ciudad de origen * Ciudad de destino\nBogota D.C. (Colombia) San Andres Islas (CO)")
			pair := p.structuredLine(doc, cityPair{})
			Expect(pair).To(Equal(cityPair{origin: "Bogotá", destination: "San Andrés Islas"}))
		})

		It("should keep the previous pair when only one city is known", func() {
			doc := Normalize("Ciudad de origen Ciudad de destino\nBogota (Colombia) Tokyo")
			pair := p.structuredLine(doc, cityPair{origin: "Bogota"})
			Expect(pair).To(Equal(cityPair{origin: "Bogota"}))
		})
	})

	Describe("mergedToken", func() {
		DescribeTable("splitting run-together cities",
			func(in, expected cityPair) {
				Expect(p.mergedToken(nil, in)).To(Equal(expected))
			},
			Entry("destination starts with origin",
				cityPair{origin: "Cali", destination: "Cali Cancun"},
				cityPair{origin: "Cali", destination: "Cancun"}),
			Entry("only an origin",
				cityPair{origin: "Pereira Panama"},
				cityPair{origin: "Pereira", destination: "Panama"}),
			Entry("only a destination",
				cityPair{destination: "Cali Cancun"},
				cityPair{origin: "Cali", destination: "Cancun"}),
			Entry("a phrase that is not two words",
				cityPair{origin: "Medellin", destination: "Medellin Punta Cana"},
				cityPair{origin: "Medellin", destination: "Medellin Punta Cana"}),
		)
	})

	Describe("dictionaryRescue", func() {
		DescribeTable("rescuing and canonicalizing",
			func(in, expected cityPair) {
				Expect(p.dictionaryRescue(nil, in)).To(Equal(expected))
			},
			Entry("origin hidden in the destination",
				cityPair{destination: "Bogota Cancun"},
				cityPair{origin: "Bogotá", destination: "Cancún"}),
			Entry("nothing left after removing the origin",
				cityPair{destination: "Bogota"},
				cityPair{origin: "Bogotá", destination: "Bogota"}),
			Entry("transposed pair",
				cityPair{origin: "Cancun", destination: "Pereira"},
				cityPair{origin: "Pereira", destination: "Cancun"}),
			Entry("cities listed in both dictionaries",
				cityPair{origin: "Santa Marta", destination: "Medellin"},
				cityPair{origin: "Santa Marta", destination: "Medellín"}),
		)
	})
})
