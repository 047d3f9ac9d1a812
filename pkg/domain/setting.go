package domain

// SettingKey names a persisted dashboard setting
type SettingKey string

// setting keys, the names match the form fields of the settings modal
const (
	SettingLeftCol    SettingKey = "leftCol"
	SettingCenterCol  SettingKey = "centerCol"
	SettingRightCol   SettingKey = "rightCol"
	SettingVolume     SettingKey = "tweetsVolume"
	SettingStartDate  SettingKey = "startDate"
	SettingEndDate    SettingKey = "endDate"
	SettingBgColor    SettingKey = "bgColor"
	SettingTitleColor SettingKey = "titleColor"
	SettingFontColor  SettingKey = "fontColor"
	SettingLinkColor  SettingKey = "linkColor"
)

// DefaultVolume is the number of posts requested when no valid volume is stored
const DefaultVolume = 30

// SettingKeys lists every known setting in form order
var SettingKeys = []SettingKey{
	SettingLeftCol, SettingCenterCol, SettingRightCol,
	SettingVolume, SettingStartDate, SettingEndDate,
	SettingBgColor, SettingTitleColor, SettingFontColor, SettingLinkColor,
}

var defaults = map[SettingKey]string{
	SettingLeftCol:    "makeschool",
	SettingCenterCol:  "laughingsquid",
	SettingRightCol:   "techcrunch",
	SettingVolume:     "30",
	SettingStartDate:  "",
	SettingEndDate:    "",
	SettingBgColor:    "#FFFFFF",
	SettingTitleColor: "#222222",
	SettingFontColor:  "#222222",
	SettingLinkColor:  "#1EAEDB",
}

// Default returns the built-in value of a setting, empty for unknown keys
func (k SettingKey) Default() string {
	return defaults[k]
}

// Valid reports whether the key is one of the known settings
func (k SettingKey) Valid() bool {
	_, ok := defaults[k]
	return ok
}

// Theme is the set of colors applied to the whole page
type Theme struct {
	Background string `json:"bg_color"`
	Title      string `json:"title_color"`
	Font       string `json:"font_color"`
	Link       string `json:"link_color"`
}

// DefaultTheme returns the theme built from default color settings
func DefaultTheme() Theme {
	return Theme{
		Background: SettingBgColor.Default(),
		Title:      SettingTitleColor.Default(),
		Font:       SettingFontColor.Default(),
		Link:       SettingLinkColor.Default(),
	}
}
