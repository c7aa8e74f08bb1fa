package models

// Known settings document keys.
const (
	SettingHeroBanner  = "heroBanner"
	SettingPromoBanner = "promoBanner"
)

// Banner is a singleton settings document (heroBanner / promoBanner),
// overwritten wholesale by the admin console.
type Banner struct {
	Key      string `bson:"_id" json:"key"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Subtitle string `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}
