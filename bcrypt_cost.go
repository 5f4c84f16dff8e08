//go:build !race

package tasks

func passwordHashCost() int {
	return 12
}
