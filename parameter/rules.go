package parameter

// Reproduction eligibility ages, fixed by the rules and not configurable
const (
	// FishBreedAge is the age at which a moving fish leaves offspring behind
	FishBreedAge = 3

	// SharkBreedAge is the age at which a moving shark leaves offspring behind
	SharkBreedAge = 5
)

// SharkEnergyGain is the energy a shark gains from eating one fish (uncapped)
const SharkEnergyGain = 2

// Seeding draws; the two draws are independent, not a single partition
const (
	// SharkSeedChance is the probability a cell is seeded with a shark
	SharkSeedChance = 0.1

	// FishSeedChance is the probability a non-shark cell is seeded with a fish
	FishSeedChance = 0.3
)

// Default per-run configuration values
const (
	DefaultFishAgeLimit       = 5
	DefaultSharkAgeLimit      = 10
	DefaultSharkInitialEnergy = 3
	DefaultTickDurationMs     = 50
)
