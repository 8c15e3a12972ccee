package warehouse

// RegionOther is the catch-all for countries outside the fixed region lists.
const RegionOther = "Other/Oceania"

var regionMembers = map[string][]string{
	"Europe": {
		"United Kingdom", "Germany", "France", "Spain", "Italy", "Netherlands",
		"Poland", "Romania", "Greece", "Portugal", "Belgium", "Czech Republic",
		"Hungary", "Sweden", "Austria", "Belarus", "Switzerland", "Bulgaria",
		"Serbia", "Denmark", "Finland", "Slovakia", "Norway", "Ireland", "Croatia",
	},
	"Asia": {
		"China", "India", "Japan", "Indonesia", "Pakistan", "Bangladesh", "Vietnam",
		"Philippines", "Turkey", "Iran", "Thailand", "Myanmar", "South Korea",
		"Iraq", "Afghanistan", "Uzbekistan", "Malaysia", "Nepal", "Sri Lanka",
	},
	"Africa": {
		"Nigeria", "Ethiopia", "Egypt", "South Africa", "Kenya", "Uganda", "Algeria",
		"Sudan", "Morocco", "Angola", "Ghana", "Mozambique", "Madagascar", "Cameroon",
	},
	"Americas": {
		"United States", "Brazil", "Mexico", "Canada", "Argentina", "Colombia",
		"Peru", "Venezuela", "Chile", "Ecuador", "Guatemala", "Cuba", "Bolivia",
	},
}

var regionByCountry = func() map[string]string {
	m := make(map[string]string)
	for region, countries := range regionMembers {
		for _, c := range countries {
			m[c] = region
		}
	}
	return m
}()

// RegionOf classifies a country by fixed-list membership, defaulting to
// RegionOther for anything unlisted.
func RegionOf(country string) string {
	if region, ok := regionByCountry[country]; ok {
		return region
	}
	return RegionOther
}
