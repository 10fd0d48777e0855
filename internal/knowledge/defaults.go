package knowledge

// NewDefault builds the built-in vocabulary. Canonical names and alias sets
// come from the dispatch-desk data requirements document; alias lists include
// the transcription misspellings observed in real calls.
func NewDefault() *Base {
	return &Base{
		locations: []LocationEntry{
			{Canonical: "Bangalore", Aliases: []string{"bangalore", "bengaluru", "bangaluru", "banglore", "bengalore", "blr"}},
			{Canonical: "Hyderabad", Aliases: []string{"hyderabad", "hyd", "hydrabad", "secunderabad", "cyberabad"}},
			{Canonical: "Chennai", Aliases: []string{"chennai", "madras", "channai", "chenai"}},
			{Canonical: "Mumbai", Aliases: []string{"mumbai", "bombay", "mumbay", "mumbi"}},
			{Canonical: "Delhi", Aliases: []string{"delhi", "new delhi", "dilli", "delhi ncr"}},
			{Canonical: "Pune", Aliases: []string{"pune", "poona", "punay"}},
			{Canonical: "Coimbatore", Aliases: []string{"coimbatore", "kovai", "coimbtore", "coimbator"}},
			{Canonical: "Madurai", Aliases: []string{"madurai", "mathurai"}},
			{Canonical: "Tumakuru", Aliases: []string{"tumakuru", "tumkur", "tumkuru"}},
			{Canonical: "Gujarat", Aliases: []string{"gujarat", "gujrat", "gujarath"}},
		},
		truckClasses: []TruckClass{
			{Type: "open", Aliases: []string{"open", "open truck", "open vehicle", "open body", "goods vehicle", "half body", "tata body"}},
			{Type: "container", Aliases: []string{"container", "closed", "closed vehicle", "closed body", "full body", "cantener", "containr", "box"}},
			{Type: "multi_axle", Aliases: []string{"multi axle", "multi-axle", "mxl", "multiaxle", "trailer", "patta", "mav"}},
			{Type: "single_axle", Aliases: []string{"single axle", "single-axle", "sxl", "single axel"}},
		},
		truckCompat: map[string]Compat{
			"open": {
				Compatible:   []string{"open truck", "open", "goods vehicle"},
				Incompatible: []string{"container"},
			},
			"container": {
				Compatible:   []string{"container", "closed"},
				Incompatible: []string{"open truck", "open"},
			},
		},
		productCompat: []ProductCompat{
			{Product: "ashirwad pipes", Preferred: []string{"open", "container"}, Acceptable: []string{"open truck"}},
			{Product: "cotton boxes", Preferred: []string{"open", "open truck"}, Acceptable: []string{"container"}},
		},
		rateBands: []RateBand{
			{Class: "container_7.5t", MinPerKm: 25, AvgPerKm: 30, MaxPerKm: 35},
			{Class: "container_25t", MinPerKm: 45, AvgPerKm: 55, MaxPerKm: 65},
			{Class: "open_8t", MinPerKm: 22, AvgPerKm: 27, MaxPerKm: 32},
			{Class: "trailer_32t", MinPerKm: 55, AvgPerKm: 65, MaxPerKm: 75},
		},
		seasonalFactors: map[string]float64{
			"normal":         1.0,
			"monsoon":        1.2,
			"festive_season": 1.3,
			"harvest_season": 1.4,
		},
	}
}
