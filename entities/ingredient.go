package entities

// Units is the fixed set of measurement units an ingredient may use.
var Units = []string{
	"банка",
	"батон",
	"бутылка",
	"г",
	"горсть",
	"долька",
	"звездочка",
	"зубчик",
	"капля",
	"кусок",
	"л",
	"лист",
	"мл",
	"пакет",
	"пакетик",
	"пачка",
	"пласт",
	"по вкусу",
	"пучок",
	"ст. л.",
	"стакан",
	"стебель",
	"стручок",
	"тушка",
	"упаковка",
	"ч. л.",
	"шт.",
	"щепотка",
}

func IsValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"index;uniqueIndex:idx_name_with_unit" json:"name"`
	MeasurementUnit string `gorm:"uniqueIndex:idx_name_with_unit" json:"measurement_unit"`

	Timestamp
}
