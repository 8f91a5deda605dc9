package config

// DefaultDivisionTables returns the built-in competition name -> standings
// table URL mapping for the divisions the club currently fields sides in.
// The site has no index page tying a club to its competitions, so this table
// is maintained by hand and updated when sides are promoted or relegated.
func DefaultDivisionTables() map[string]string {
	return map[string]string{
		"South East Women's Division 1 East":         "https://southeast.englandhockey.co.uk/competitions/south-east-womens-division-1-east/table",
		"South East Open - Men's Division 1 East":    "https://southeast.englandhockey.co.uk/competitions/south-east-open---mens-division-1-east/table",
		"South East Women's Division 1 Invicta":      "https://southeast.englandhockey.co.uk/competitions/south-east-womens-division-1-invicta/table",
		"South East Open - Men's Division 2 Invicta": "https://southeast.englandhockey.co.uk/competitions/south-east-open---mens-division-2-invicta/table",
		"South East Women's Division 3 Invicta":      "https://southeast.englandhockey.co.uk/competitions/south-east-womens-division-3-invicta/table",
		"South East Open - Men's Division 4 Invicta": "https://southeast.englandhockey.co.uk/competitions/south-east-open---mens-division-4-invicta/table",
		"South East Open - Men's Division 5 Invicta": "https://southeast.englandhockey.co.uk/competitions/south-east-open---mens-division-5-invicta/table",
		"South East Women's Division 5 Invicta":      "https://southeast.englandhockey.co.uk/competitions/south-east-womens-division-5-invicta/table",
		"South East Open - Men's Division 6 Invicta": "https://southeast.englandhockey.co.uk/competitions/2025-2026-4601609-adult-south-east-open---mens-group-4602608-south-east-open---mens-division-6-invicta/table",
		"South East Women's Division 6 Invicta":      "https://southeast.englandhockey.co.uk/competitions/south-east-womens-division-6-invicta/table",
		"South East Open - Men's Division 8 Invicta": "https://southeast.englandhockey.co.uk/competitions/2025-2026-4601609-adult-south-east-open---mens-group-4602806-south-east-open---mens-division-8-invicta/table",
		"South East Women's Division 7 Invicta":      "https://southeast.englandhockey.co.uk/competitions/south-east-womens-division-7-invicta/table",
		"South East Open - Men's Division 9 Invicta": "https://southeast.englandhockey.co.uk/competitions/2025-2026-4601609-adult-south-east-open---mens-group-4602900-south-east-open---mens-division-9-invicta/table",
	}
}
