package domain

// BaseCategories is the fixed part of the known category set.
var BaseCategories = []string{
	"Computers",
	"Printers",
	"Networking",
	"Software",
	"Accessories",
}
