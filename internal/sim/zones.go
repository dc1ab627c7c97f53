package sim

import (
	"sort"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
)

// ZoneDirectory — статичный каталог зон сцены. Контент фиксируется на время
// жизни процесса, мутирующих операций нет. Lookup тотальный: неизвестный
// zone_id никогда не ошибка, всегда fallback в origin.
type ZoneDirectory struct {
	zones  map[string]domain.Zone
	origin domain.Vector
}

func NewZoneDirectory(zones []domain.Zone) *ZoneDirectory {
	d := &ZoneDirectory{
		zones: make(map[string]domain.Zone, len(zones)),
		// Origin — точка (0,0,0), туда падают агенты с битой привязкой
		origin: domain.Vector{},
	}
	for _, z := range zones {
		d.zones[z.ID] = z
	}
	return d
}

// AnchorOf возвращает якорь зоны. Тотальная функция: для неизвестного id
// отдаем origin, паник и ошибок здесь нет (аномалия данных, не сбой).
func (d *ZoneDirectory) AnchorOf(zoneID string) domain.Vector {
	if z, ok := d.zones[zoneID]; ok {
		return z.Anchor
	}
	return d.origin
}

// Contains сообщает, известна ли зона каталогу.
func (d *ZoneDirectory) Contains(zoneID string) bool {
	_, ok := d.zones[zoneID]
	return ok
}

// Zones отдает копию каталога в стабильном порядке (для листинга в API).
func (d *ZoneDirectory) Zones() []domain.Zone {
	out := make([]domain.Zone, 0, len(d.zones))
	for _, z := range d.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
