package services

import (
	"sort"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

// BuildPublicPage assembles what a visitor sees: active links in order, icons
// normalized, and the profile's custom colors laid over the template defaults.
func BuildPublicPage(profile domain.Profile, tmpl *domain.Template, links []domain.Link) domain.PublicPage {
	visible := domain.ActiveOnly(links)
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].OrderIndex < visible[j].OrderIndex })
	for i := range visible {
		visible[i].Icon = domain.ParseIcon(string(visible[i].Icon))
	}

	page := domain.PublicPage{
		Profile:  profile,
		Template: profile.TemplateName,
		Palette:  profile.CustomColors,
		Links:    visible,
	}
	page.Profile.OwnerEmail = ""
	if tmpl != nil {
		page.Template = tmpl.Name
		page.Palette = profile.CustomColors.Merge(tmpl.DefaultColors)
	}
	return page
}
