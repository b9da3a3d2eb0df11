package fields

// usStates maps two-letter USPS codes to full state (and territory) names.
// The ADS form's state dropdown accepts exactly these codes for US addresses.
var usStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
	// Federal district and territories are valid on the ADS.
	"DC": "District of Columbia", "PR": "Puerto Rico", "GU": "Guam",
	"VI": "U.S. Virgin Islands", "AS": "American Samoa", "MP": "Northern Mariana Islands",
}

// usStateNames is the reverse lookup, keyed by upper-cased full name, so that
// "California" normalizes to "CA" when a source document spells the state out.
var usStateNames = func() map[string]string {
	m := make(map[string]string, len(usStates))
	for code, name := range usStates {
		m[upper(name)] = code
	}
	return m
}()

// dateLayouts are tried in order when parsing dates from source documents.
// US-style month-first layouts come before day-first ones since ADS cover
// sheets are overwhelmingly US-originated.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"20060102",
}

// nameSuffixes are generational/professional suffixes accepted in the ADS
// suffix field; they are split off family names during normalization.
var nameSuffixes = map[string]struct{}{
	"JR": {}, "JR.": {}, "SR": {}, "SR.": {},
	"II": {}, "III": {}, "IV": {}, "V": {},
	"PHD": {}, "PH.D.": {}, "MD": {}, "M.D.": {}, "ESQ": {}, "ESQ.": {},
}

func upper(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}
