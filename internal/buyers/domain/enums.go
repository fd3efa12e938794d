// Package domain defines the buyer record's closed enumeration sets.
package domain

// City is the buyer's target city.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// PropertyType is the kind of property the buyer is looking for.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypePlot      PropertyType = "Plot"
	PropertyTypeOffice    PropertyType = "Office"
	PropertyTypeRetail    PropertyType = "Retail"
)

// BHK is the bedroom-hall-kitchen configuration. Only meaningful for
// residential property types; stored as null otherwise.
type BHK string

const (
	BHKOne    BHK = "One"
	BHKTwo    BHK = "Two"
	BHKThree  BHK = "Three"
	BHKFour   BHK = "Four"
	BHKStudio BHK = "Studio"
)

// Purpose is the buy/rent intent.
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// Timeline is the buyer's purchase horizon.
type Timeline string

const (
	TimelineZeroTo3m   Timeline = "ZeroTo3m"
	TimelineThreeTo6m  Timeline = "ThreeTo6m"
	TimelineMoreThan6m Timeline = "MoreThan6m"
	TimelineExploring  Timeline = "Exploring"
)

// Source is the lead origin channel.
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "Walk_in"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

// Status is the lead pipeline stage.
type Status string

const (
	StatusNew         Status = "New"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// DefaultStatus is applied when a record is created without a status.
const DefaultStatus = StatusNew

var (
	cities        = enumSet(CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther)
	propertyTypes = enumSet(PropertyTypeApartment, PropertyTypeVilla, PropertyTypePlot, PropertyTypeOffice, PropertyTypeRetail)
	bhks          = enumSet(BHKOne, BHKTwo, BHKThree, BHKFour, BHKStudio)
	purposes      = enumSet(PurposeBuy, PurposeRent)
	timelines     = enumSet(TimelineZeroTo3m, TimelineThreeTo6m, TimelineMoreThan6m, TimelineExploring)
	sources       = enumSet(SourceWebsite, SourceReferral, SourceWalkIn, SourceCall, SourceOther)
	statuses      = enumSet(StatusNew, StatusQualified, StatusContacted, StatusVisited, StatusNegotiation, StatusConverted, StatusDropped)
)

func enumSet[T ~string](values ...T) map[string]T {
	set := make(map[string]T, len(values))
	for _, v := range values {
		set[string(v)] = v
	}
	return set
}

// ParseCity validates raw against the closed city set.
func ParseCity(raw string) (City, bool) {
	v, ok := cities[raw]
	return v, ok
}

// ParsePropertyType validates raw against the closed property type set.
func ParsePropertyType(raw string) (PropertyType, bool) {
	v, ok := propertyTypes[raw]
	return v, ok
}

// ParseBHK validates raw against the closed BHK set.
func ParseBHK(raw string) (BHK, bool) {
	v, ok := bhks[raw]
	return v, ok
}

// ParsePurpose validates raw against the closed purpose set.
func ParsePurpose(raw string) (Purpose, bool) {
	v, ok := purposes[raw]
	return v, ok
}

// ParseTimeline validates raw against the closed timeline set.
func ParseTimeline(raw string) (Timeline, bool) {
	v, ok := timelines[raw]
	return v, ok
}

// ParseSource validates raw against the closed source set.
func ParseSource(raw string) (Source, bool) {
	v, ok := sources[raw]
	return v, ok
}

// ParseStatus validates raw against the closed status set.
func ParseStatus(raw string) (Status, bool) {
	v, ok := statuses[raw]
	return v, ok
}
