package domain

import "time"

// Palette is the five-slot color set a template is rendered with.
type Palette struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
}

// Merge returns p with every empty slot filled from fallback.
func (p Palette) Merge(fallback Palette) Palette {
	pick := func(v, f string) string {
		if v != "" {
			return v
		}
		return f
	}
	return Palette{
		Background: pick(p.Background, fallback.Background),
		Text:       pick(p.Text, fallback.Text),
		Primary:    pick(p.Primary, fallback.Primary),
		Secondary:  pick(p.Secondary, fallback.Secondary),
		Accent:     pick(p.Accent, fallback.Accent),
	}
}

// Profile is a user's public page identity.
type Profile struct {
	ID                 string    `json:"id"`
	OwnerEmail         string    `json:"owner_email,omitempty"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"display_name"`
	Bio                string    `json:"bio"`
	ProfileImageURL    string    `json:"profile_image_url,omitempty"`
	BackgroundImageURL string    `json:"background_image_url,omitempty"`
	ThemeID            int64     `json:"theme_id"`
	TemplateName       string    `json:"template_name"`
	CustomColors       Palette   `json:"custom_colors"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Template is a named layout with default colors.
type Template struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description"`
	LayoutType    string    `json:"layout_type"`
	DefaultColors Palette   `json:"default_colors"`
	CreatedAt     time.Time `json:"created_at"`
}

type Theme struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"background_color"`
	ButtonColor     string `json:"button_color"`
	ButtonTextColor string `json:"button_text_color"`
	TextColor       string `json:"text_color"`
	FontFamily      string `json:"font_family"`
	ButtonStyle     string `json:"button_style"`
}

// PublicPage is everything the renderer needs for one profile page.
type PublicPage struct {
	Profile  Profile `json:"profile"`
	Template string  `json:"template"`
	Palette  Palette `json:"palette"`
	Links    []Link  `json:"links"`
}
