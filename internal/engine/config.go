package engine

import (
	"fmt"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/logger"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска сервера и симуляции
type Config struct {
	Server     ServerConfig         `yaml:"server"`
	Log        logger.Options       `yaml:"log"`
	Simulation SimulationConfig     `yaml:"simulation"`
	Motion     systems.MotionConfig `yaml:"motion"`
	Encounter  EncounterConfig      `yaml:"encounter"`
	Storage    StorageConfig        `yaml:"storage"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// AdminToken - токен для админских команд (TILE_CHANGE, CHANGE_MAP). Пусто - админка выключена.
	AdminToken string `yaml:"admin_token"`
}

type SimulationConfig struct {
	// Seed - зерно генератора блуждания и побега. 0 - от текущего времени.
	Seed int64 `yaml:"seed"`
	// TickRate - тиков в секунду
	TickRate int `yaml:"tick_rate"`
	// MapPath - описание стартовой карты. Пусто - сгенерировать демо-карту.
	MapPath string `yaml:"map_path"`
	// CatalogPath - YAML каталог лабиринтов и персонажей
	CatalogPath string `yaml:"catalog_path"`
	// PlayerRadius - радиус игрока в долях блока
	PlayerRadius float64 `yaml:"player_radius"`
	// Атрибуты ведущего члена группы
	Dexterity int `yaml:"dexterity"`
	Luck      int `yaml:"luck"`
}

type EncounterConfig struct {
	// Cooldown - сколько реального времени монстр не нападает после встречи
	Cooldown time.Duration `yaml:"cooldown"`
}

type StorageConfig struct {
	// SavePath - путь к SQLite базе побежденных монстров. Пусто - хранить в памяти.
	SavePath string `yaml:"save_path"`
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		Server:     ServerConfig{Port: "8080"},
		Log:        logger.Options{Level: "info", Format: "text"},
		Simulation: SimulationConfig{TickRate: 20, PlayerRadius: 0.25, Dexterity: 10, Luck: 5},
		Motion:     systems.DefaultMotionConfig(),
		Encounter:  EncounterConfig{Cooldown: 5 * time.Second},
	}
}

// LoadConfig накладывает YAML файл на значения по умолчанию
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Simulation.TickRate <= 0 {
		return cfg, fmt.Errorf("config %s: tick_rate must be positive", path)
	}
	return cfg, nil
}

// TickInterval - длительность одного тика
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Simulation.TickRate)
}
