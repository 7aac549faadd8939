package model

// Setting is a persisted key/value pair edited from the configuration window:
// exchange_rate, currency, vat_enabled, vat_percent, shop_title, shop_rif.
type Setting struct {
	Clave string `gorm:"primaryKey;column:clave"`
	Valor string `gorm:"column:valor"`
}

func (Setting) TableName() string { return "settings" }
