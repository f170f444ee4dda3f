package configurator

import (
	"print-pricing/core/addon"
	"print-pricing/core/size"
)

// Configuration is the user's current selection set.
// It is what OnConfigurationChange receives.
type Configuration struct {
	QuantityID     string                 `json:"quantityId,omitempty"`
	CustomQuantity *int                   `json:"customQuantity,omitempty" validate:"omitempty,gt=0"`
	SizeID         string                 `json:"sizeId,omitempty"`
	CustomSize     *size.CustomDimensions `json:"customSize,omitempty"`
	PaperID        string                 `json:"paperId,omitempty"`
	CoatingID      string                 `json:"coatingId,omitempty"`
	SidesID        string                 `json:"sidesId,omitempty"`
	AddonIDs       []string               `json:"addonIds,omitempty" validate:"omitempty,dive,required"`
	ItemsPerBundle int                    `json:"itemsPerBundle,omitempty" validate:"gte=0"`
	DesignSide     string                 `json:"designSide,omitempty"`
	TurnaroundID   string                 `json:"turnaroundId,omitempty"`
}

// AddonOptions returns the per-order options for special addons
func (c Configuration) AddonOptions() addon.Options {
	return addon.Options{ItemsPerBundle: c.ItemsPerBundle, DesignSide: c.DesignSide}
}

func (c Configuration) clone() Configuration {
	out := c
	if c.CustomQuantity != nil {
		v := *c.CustomQuantity
		out.CustomQuantity = &v
	}
	if c.CustomSize != nil {
		v := *c.CustomSize
		out.CustomSize = &v
	}
	out.AddonIDs = append([]string(nil), c.AddonIDs...)
	return out
}
