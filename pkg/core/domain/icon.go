package domain

import "strings"

// Icon is the symbol tag rendered next to a link.
type Icon string

const (
	IconLink         Icon = "Link"
	IconInstagram    Icon = "Instagram"
	IconTwitter      Icon = "Twitter"
	IconFacebook     Icon = "Facebook"
	IconYoutube      Icon = "Youtube"
	IconGithub       Icon = "Github"
	IconLinkedin     Icon = "Linkedin"
	IconMail         Icon = "Mail"
	IconPhone        Icon = "Phone"
	IconGlobe        Icon = "Globe"
	IconMusic        Icon = "Music"
	IconVideo        Icon = "Video"
	IconShoppingCart Icon = "ShoppingCart"
	IconCoffee       Icon = "Coffee"
)

// Icons lists the selectable icons in picker order.
var Icons = []Icon{
	IconLink, IconInstagram, IconTwitter, IconFacebook, IconYoutube, IconGithub, IconLinkedin,
	IconMail, IconPhone, IconGlobe, IconMusic, IconVideo, IconShoppingCart, IconCoffee,
}

var iconsByName = func() map[string]Icon {
	m := make(map[string]Icon, len(Icons))
	for _, icon := range Icons {
		m[strings.ToLower(string(icon))] = icon
	}
	return m
}()

// ParseIcon maps a name to its icon, case-insensitively. Unknown names map to IconLink.
func ParseIcon(name string) Icon {
	if icon, ok := iconsByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return IconLink
}
