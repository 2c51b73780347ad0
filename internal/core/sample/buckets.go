package sample

// Bucket is a labelled inclusive id range approximating accounts created in one calendar year
type Bucket struct {
	Label string
	Min   int64
	Max   int64
}

// AnyYear spans the whole id space
const AnyYear = "Any year"

// Buckets is the static year table, AnyYear first. 2022 and 2023 overlap by a few ids;
// the boundaries are estimates and are kept as measured.
var Buckets = []Bucket{
	{AnyYear, 1, 9_000_000_000},
	{"2006", 1, 11_386},
	{"2007", 11_387, 141_897},
	{"2008", 141_898, 1_892_311},
	{"2009", 1_892_312, 5_881_290},
	{"2010", 5_881_291, 13_901_944},
	{"2011", 13_901_945, 22_797_639},
	{"2012", 22_797_640, 36_347_234},
	{"2013", 36_347_235, 53_530_394},
	{"2014", 53_530_395, 75_524_130},
	{"2015", 75_524_131, 103_531_549},
	{"2016", 103_531_550, 205_441_141},
	{"2017", 205_441_142, 478_149_931},
	{"2018", 478_149_932, 915_267_179},
	{"2019", 915_267_180, 1_390_794_501},
	{"2020", 1_390_794_502, 2_259_402_999},
	{"2021", 2_259_403_000, 3_193_391_431},
	{"2022", 3_193_391_432, 4_195_844_718},
	{"2023", 4_195_844_712, 5_402_010_909},
	{"2024", 5_402_010_910, 7_794_159_194},
	{"2025", 7_794_159_195, 9_000_000_000},
}

// Lookup returns the bucket with the given label
func Lookup(label string) (Bucket, bool) {
	for _, b := range Buckets {
		if b.Label == label {
			return b, true
		}
	}
	return Bucket{}, false
}

// Labels returns every bucket label in table order
func Labels() []string {
	out := make([]string, len(Buckets))
	for i, b := range Buckets {
		out[i] = b.Label
	}
	return out
}
