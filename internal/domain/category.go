package domain

// Category описывает категорию каталога. Таксономия плоская: Level не связан с иерархией.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon,omitempty"`
}

func NewCategory(id, name string, level int) *Category {
	return &Category{
		ID:    id,
		Name:  name,
		Level: level,
	}
}

// PlaceholderCategory синтезирует категорию для неизвестного идентификатора.
func PlaceholderCategory(id string) Category {
	return Category{
		ID:    id,
		Name:  "Category " + id,
		Level: 1,
	}
}
