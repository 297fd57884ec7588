package domain

var Tables = []interface{}{
	// System
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Category{},
	&Product{},
	// Storefront
	&SiteSettings{},
	&ShippingSettings{},
	&PromoCode{},
	&Order{},
}
