package domain

type ItemStatus string

const (
	ItemOpen      ItemStatus = "open"
	ItemCompleted ItemStatus = "completed"
	ItemCanceled  ItemStatus = "canceled"
)

type ContactType string

const (
	ContactClient   ContactType = "Client"
	ContactGeneric  ContactType = "Contact"
	ContactPersonal ContactType = "Personal"
)

// ValidContactTypes is the canonical set of accepted contact type strings.
var ValidContactTypes = map[string]bool{
	"Client": true, "Contact": true, "Personal": true,
}

// Priority factor weights. A score is the product of the four chosen weights;
// picking any factor with weight 0 zeroes the score.
var (
	ImportanceWeights = map[string]int{
		"Critical": 20, "High": 10, "Medium": 5, "Low": 1, "None": 0,
	}
	UrgencyWeights = map[string]int{
		"Critical": 20, "High": 10, "Medium": 5, "Low": 1, "None": 0,
	}
	SizeWeights = map[string]int{
		"XL": 16, "L": 8, "M": 4, "S": 2, "P": 0,
	}
	ValueWeights = map[string]int{
		"XL": 16, "L": 8, "M": 4, "S": 2, "P": 0,
	}
)
