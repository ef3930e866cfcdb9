package entity

// Test - тест из каталога; SheetName служит уникальным идентификатором
type Test struct {
	SheetName string `json:"sheetName"`
	Title     string `json:"title"`
}

// FindTest ищет тест по имени листа
func FindTest(catalog []Test, sheetName string) (Test, bool) {
	for _, t := range catalog {
		if t.SheetName == sheetName {
			return t, true
		}
	}
	return Test{}, false
}
