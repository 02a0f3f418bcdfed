package domain

import (
	"sort"
	"strings"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
)

// OtherEntryThreshold is the country count above which a region also gets a
// synthetic "Other" entry for countries not listed individually.
const OtherEntryThreshold = 5

// RegionOption is one user-selectable storefront entry. Code is the PARENT
// region's backend ID, so many options can map to the same backend region;
// they share pricing and currency by design.
type RegionOption struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Flag     string `json:"flag"`
}

// FlattenRegions expands backend regions into one option per country, plus a
// synthetic "Other" entry for large multi-country regions. Options are sorted
// by display name within each region.
func FlattenRegions(regions []medusa.Region) []RegionOption {
	options := make([]RegionOption, 0, len(regions))

	for _, region := range regions {
		currency := strings.ToUpper(region.CurrencyCode)

		if len(region.Countries) == 0 {
			options = append(options, RegionOption{
				Code:     region.ID,
				Name:     region.Name,
				Currency: currency,
				Flag:     "🌐",
			})
			continue
		}

		countries := make([]RegionOption, 0, len(region.Countries))
		for _, country := range region.Countries {
			countries = append(countries, RegionOption{
				Code:     region.ID,
				Name:     country.DisplayName,
				Currency: currency,
				Flag:     FlagEmoji(country.ISO2),
			})
		}
		sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })
		options = append(options, countries...)

		if len(region.Countries) > OtherEntryThreshold {
			options = append(options, RegionOption{
				Code:     region.ID,
				Name:     region.Name + " (Other)",
				Currency: currency,
				Flag:     "🌐",
			})
		}
	}

	return options
}

// FindRegionOption returns the first option with the given code, or nil. Any
// option sharing the code is equivalent for pricing purposes.
func FindRegionOption(options []RegionOption, code string) *RegionOption {
	for i := range options {
		if options[i].Code == code {
			return &options[i]
		}
	}
	return nil
}

// FlagEmoji converts a two-letter ISO country code to its flag emoji, or "🌐"
// for malformed input.
func FlagEmoji(iso2 string) string {
	code := strings.ToUpper(iso2)
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "🌐"
	}
	const base = 0x1F1E6
	return string([]rune{
		rune(base + int(code[0]-'A')),
		rune(base + int(code[1]-'A')),
	})
}
