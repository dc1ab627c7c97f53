package domain

import "time"

// Tool — элемент каталога устанавливаемых инструментов дашборда.
// Каталог статичен, меняется только флаг установки.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"` // "observability", "scene", "data", "ai"

	Installed   bool       `json:"installed"`
	InstalledAt *time.Time `json:"installed_at,omitempty"`
}
