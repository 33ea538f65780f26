package catalog

type region struct {
	name   string
	cities []string
}

var regions = []region{
	{"Maharashtra", []string{"Mumbai", "Pune", "Nagpur", "Nashik", "Aurangabad"}},
	{"Gujarat", []string{"Ahmedabad", "Surat", "Vadodara", "Rajkot", "Gandhinagar"}},
	{"Karnataka", []string{"Bangalore", "Mysore", "Hubli", "Mangalore", "Belgaum"}},
	{"Tamil Nadu", []string{"Chennai", "Coimbatore", "Madurai", "Salem", "Tiruchirappalli"}},
	{"Delhi", []string{"New Delhi", "Delhi", "Gurgaon", "Noida", "Faridabad"}},
	{"West Bengal", []string{"Kolkata", "Howrah", "Durgapur", "Asansol", "Siliguri"}},
	{"Rajasthan", []string{"Jaipur", "Jodhpur", "Udaipur", "Kota", "Ajmer"}},
	{"Uttar Pradesh", []string{"Lucknow", "Kanpur", "Agra", "Varanasi", "Meerut"}},
	{"Madhya Pradesh", []string{"Bhopal", "Indore", "Gwalior", "Jabalpur", "Ujjain"}},
	{"Andhra Pradesh", []string{"Visakhapatnam", "Vijayawada", "Guntur", "Nellore", "Kurnool"}},
	{"Telangana", []string{"Hyderabad", "Warangal", "Nizamabad", "Karimnagar", "Khammam"}},
	{"Kerala", []string{"Thiruvananthapuram", "Kochi", "Kozhikode", "Thrissur", "Kollam"}},
	{"Punjab", []string{"Chandigarh", "Ludhiana", "Amritsar", "Jalandhar", "Patiala"}},
	{"Haryana", []string{"Gurgaon", "Faridabad", "Panipat", "Ambala", "Karnal"}},
	{"Odisha", []string{"Bhubaneswar", "Cuttack", "Rourkela", "Berhampur", "Sambalpur"}},
	{"Jharkhand", []string{"Ranchi", "Jamshedpur", "Dhanbad", "Bokaro", "Deoghar"}},
	{"Assam", []string{"Guwahati", "Silchar", "Dibrugarh", "Jorhat", "Nagaon"}},
	{"Bihar", []string{"Patna", "Gaya", "Bhagalpur", "Muzaffarpur", "Purnia"}},
}

// GeographyCatalog maps regions to their city lists.
type GeographyCatalog struct {
	names  []string
	cities map[string][]string
}

// NewGeographyCatalog returns the built-in table of Indian states.
func NewGeographyCatalog() *GeographyCatalog {
	g := &GeographyCatalog{
		names:  make([]string, 0, len(regions)),
		cities: make(map[string][]string, len(regions)),
	}
	for _, r := range regions {
		g.names = append(g.names, r.name)
		g.cities[r.name] = r.cities
	}
	return g
}

// Regions returns every known region in table order.
func (g *GeographyCatalog) Regions() []string {
	return append([]string(nil), g.names...)
}

// CitiesFor returns the ordered cities of a region. An unknown region is its own
// single city.
func (g *GeographyCatalog) CitiesFor(region string) []string {
	if cities, ok := g.cities[region]; ok {
		return cities
	}
	return []string{region}
}

// Known reports whether the region has a city table.
func (g *GeographyCatalog) Known(region string) bool {
	_, ok := g.cities[region]
	return ok
}
