package rx

// ELRS decodes ExpressLRS, which uses the CRSF framing for the RC link.
type ELRS = CRSF

func NewELRS() *ELRS {
	return NewCRSF()
}
