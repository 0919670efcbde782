package model

// Partner is an insurance company users can be referred to.
// LinkTemplate is a text/template rendered per user (see service.CatalogService).
type Partner struct {
	ID           string `gorm:"column:id;size:64;primaryKey"`
	Name         string `gorm:"column:name;not null"`
	Description  string `gorm:"column:description"`
	LinkTemplate string `gorm:"column:link_template"`
	IsActive     bool   `gorm:"column:is_active;not null;default:true"`
	SortOrder    int    `gorm:"column:sort_order;not null;default:0"`
}

func (Partner) TableName() string { return "partners" }
