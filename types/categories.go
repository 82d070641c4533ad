package types

// Categories is the suggested set offered to clients. It is advisory:
// articles may carry any category string, and storage does not validate
// against this list.
var Categories = []string{
	"Tech",
	"AI",
	"Backend",
	"Frontend",
	"DevOps",
	"Security",
	"Mobile",
	"Other",
}

func IsKnownCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
