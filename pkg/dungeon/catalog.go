package dungeon

import (
	"fmt"
	"labyrinth-server/internal/domain"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog - статические данные, общие для всех карт: лабиринты и персонажи
type Catalog struct {
	Labyrinths map[int]*domain.Labyrinth
	Roster     *domain.Roster
}

type catalogFile struct {
	Labyrinths   []labyrinthFile    `yaml:"labyrinths"`
	NPCs         []domain.Character `yaml:"npcs"`
	PartyMembers []domain.Character `yaml:"party_members"`
}

type labyrinthFile struct {
	ID      int                       `yaml:"id"`
	Walls   []domain.WallDescriptor   `yaml:"walls"`
	Objects []domain.ObjectDescriptor `yaml:"objects"`
}

// LoadCatalog читает YAML каталог
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog разбирает YAML каталог
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	c := &Catalog{
		Labyrinths: make(map[int]*domain.Labyrinth, len(f.Labyrinths)),
		Roster:     domain.NewRoster(),
	}

	for _, lf := range f.Labyrinths {
		if _, dup := c.Labyrinths[lf.ID]; dup {
			return nil, fmt.Errorf("duplicate labyrinth %d", lf.ID)
		}
		lab := domain.NewLabyrinth(lf.ID)
		for i := range lf.Walls {
			w := lf.Walls[i]
			if w.ID <= 0 || lab.Wall(w.ID) != nil {
				return nil, fmt.Errorf("labyrinth %d: bad or duplicate wall id %d", lf.ID, w.ID)
			}
			lab.AddWall(&w)
		}
		for i := range lf.Objects {
			o := lf.Objects[i]
			if o.ID <= 0 || lab.Object(o.ID) != nil {
				return nil, fmt.Errorf("labyrinth %d: bad or duplicate object id %d", lf.ID, o.ID)
			}
			lab.AddObject(&o)
		}
		c.Labyrinths[lf.ID] = lab
	}

	for i := range f.NPCs {
		ch := f.NPCs[i]
		c.Roster.NPCs[ch.Index] = &ch
	}
	for i := range f.PartyMembers {
		ch := f.PartyMembers[i]
		c.Roster.PartyMembers[ch.Index] = &ch
	}
	return c, nil
}

// Labyrinth возвращает копию каталога лабиринта для одной загрузки карты.
// Описания стен и объектов общие, набор изменяемых стен у каждой карты свой.
func (c *Catalog) Labyrinth(id int) (*domain.Labyrinth, error) {
	src, ok := c.Labyrinths[id]
	if !ok {
		return nil, fmt.Errorf("%w: labyrinth %d", domain.ErrDataInconsistency, id)
	}
	lab := domain.NewLabyrinth(src.ID)
	for _, w := range src.Walls {
		lab.AddWall(w)
	}
	for _, o := range src.Objects {
		lab.AddObject(o)
	}
	return lab, nil
}
