package domain

// LandType selects which conditions count toward the domain of interest.
type LandType string

const (
	LandTypeForest LandType = "forest"
	LandTypeTimber LandType = "timber"
	LandTypeAll    LandType = "all"
)

// productiveSiteClasses are the SITECLCD values spec.md §4.4.2 calls
// "productive" for the timber land-type definition.
var productiveSiteClasses = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}

// DomainIndicator computes the 0/1 land-type domain indicator for one
// condition. It NEVER drops the row — spec.md §4.4.2 is explicit that the
// indicator must multiply into downstream values instead, so variance is
// computed on the zero-extended sample. This is the design behind the fix
// for the historical 26x TPA underestimate (a one-stage pipeline that
// dropped non-matching conditions before aggregation, rather than
// zero-extending them).
func DomainIndicator(landType LandType, condStatusCD, siteClCD, reservCD int) float64 {
	switch landType {
	case LandTypeForest:
		if condStatusCD == 1 {
			return 1.0
		}
	case LandTypeTimber:
		if condStatusCD == 1 && productiveSiteClasses[siteClCD] && reservCD == 0 {
			return 1.0
		}
	case LandTypeAll:
		return 1.0
	}
	return 0.0
}
