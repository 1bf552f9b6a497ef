package model

// Energy is the effort a hobby needs, or the effort a user currently has.
type Energy string

// Energy levels.
const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Valid reports whether e is one of the known energy levels.
func (e Energy) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

// Location is where a hobby can be done.
type Location string

// Locations.
const (
	LocationHome     Location = "home"
	LocationOutside  Location = "outside"
	LocationAnywhere Location = "anywhere"
)

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	switch l {
	case LocationHome, LocationOutside, LocationAnywhere:
		return true
	}
	return false
}

// Category groups hobbies by the kind of activity.
type Category string

// Categories.
const (
	CategoryContemplative Category = "contemplative"
	CategoryAuditory      Category = "auditory"
	CategoryCreative      Category = "creative"
	CategoryActive        Category = "active"
	CategoryLearning      Category = "learning"
	CategoryRoutineCare   Category = "routine-care"
	CategoryPlayful       Category = "playful"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryContemplative,
	CategoryAuditory,
	CategoryCreative,
	CategoryActive,
	CategoryLearning,
	CategoryRoutineCare,
	CategoryPlayful,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Activity is the disposition picked in the diagnosis.
type Activity string

// Activity dispositions.
const (
	ActivityPassive Activity = "passive"
	ActivityActive  Activity = "active"
)

// Valid reports whether a is a known disposition.
func (a Activity) Valid() bool {
	return a == ActivityPassive || a == ActivityActive
}

// Rating is the user's verdict on a hobby attempt. Ordered meh < good < great.
type Rating string

// Ratings.
const (
	RatingMeh   Rating = "meh"
	RatingGood  Rating = "good"
	RatingGreat Rating = "great"
)

// ratingWeights is the scoring weight of each rating. Closed set.
var ratingWeights = map[Rating]int{
	RatingGreat: 3,
	RatingGood:  2,
	RatingMeh:   1,
}

// Weight returns the scoring weight of r, or 0 for an unknown rating.
func (r Rating) Weight() int {
	return ratingWeights[r]
}

// Valid reports whether r is a known rating.
func (r Rating) Valid() bool {
	_, ok := ratingWeights[r]
	return ok
}
