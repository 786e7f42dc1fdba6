package catalog

import "pokebattle/internal/models"

// The three classic O(n²) sorts are kept as distinct implementations on
// purpose; each must be separately observable and all must agree on the final
// ordering for a given criterion. None of them guarantees stability.

type lessFunc func(a, b models.Combatant) bool

func lessByName(a, b models.Combatant) bool     { return a.Name < b.Name }
func lessByPoints(a, b models.Combatant) bool   { return a.Points < b.Points }
func lessByCategory(a, b models.Combatant) bool { return a.Category < b.Category }

func bubbleSort(items []models.Combatant, less lessFunc) {
	n := len(items)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1-i; j++ {
			if less(items[j+1], items[j]) {
				items[j], items[j+1] = items[j+1], items[j]
			}
		}
	}
}

func insertionSort(items []models.Combatant, less lessFunc) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && less(key, items[j]) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}

func selectionSort(items []models.Combatant, less lessFunc) {
	n := len(items)
	for i := 0; i < n-1; i++ {
		min := i
		for j := i + 1; j < n; j++ {
			if less(items[j], items[min]) {
				min = j
			}
		}
		if min != i {
			items[i], items[min] = items[min], items[i]
		}
	}
}
