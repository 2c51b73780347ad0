package classify

// Bucket is a nonstop output category; its value is the output file name
type Bucket string

// Nonstop buckets in routing priority
const (
	BucketRealName   Bucket = "real_name.txt"
	BucketDouble     Bucket = "double.txt"
	BucketEnds4      Bucket = "ends_in_4_digit.txt"
	BucketEnds3      Bucket = "ends_in_3_digit.txt"
	BucketEnds2      Bucket = "ends_in_2_digit.txt"
	BucketEnds1      Bucket = "ends_in_1_digit.txt"
	BucketNumberless Bucket = "numberless.txt"
)

// Buckets lists every bucket in routing priority
var Buckets = []Bucket{
	BucketRealName, BucketDouble, BucketEnds4, BucketEnds3, BucketEnds2, BucketEnds1, BucketNumberless,
}

var endsBuckets = map[int]Bucket{4: BucketEnds4, 3: BucketEnds3, 2: BucketEnds2, 1: BucketEnds1}

// NonstopBucketOf routes username to the first bucket it fits; false means discard
func NonstopBucketOf(username string) (Bucket, bool) {
	if ok, _ := Classify(username, RealName); ok {
		return BucketRealName, true
	}
	if ok, _ := Classify(username, Double); ok {
		return BucketDouble, true
	}
	if b, ok := endsBuckets[TrailingDigits(username)]; ok {
		return b, true
	}
	if !hasDigit(username) {
		return BucketNumberless, true
	}
	return "", false
}
