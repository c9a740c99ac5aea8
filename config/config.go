package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath     string `json:"selfpath"`
	Port         string `json:"port"`
	Blocksize    int    `json:"blocksize"`     // 每个格子的像素大小
	Width        int    `json:"width"`         // 新游戏默认宽度
	Height       int    `json:"height"`        // 新游戏默认高度
	TickInterval int    `json:"tick_interval"` // tick间隔，单位毫秒
	MaxWidth     int    `json:"max_width"`     // 允许创建的最大宽度
	MaxHeight    int    `json:"max_height"`    // 允许创建的最大高度
}

var (
	instance *AppConfig
	once     sync.Once
)

func defaults() *AppConfig {
	return &AppConfig{
		SelfPath:     "http://127.0.0.1:38870",
		Port:         "38870",
		Blocksize:    20,
		Width:        20,
		Height:       20,
		TickInterval: 100,
		MaxWidth:     200,
		MaxHeight:    200,
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		instance = defaults()
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			saveConfig(filePath)
		} else {
			loadConfig(filePath)
		}
	})
	return instance
}

// loadConfig loads the settings from the file
func loadConfig(filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(instance); err != nil {
		panic(err)
	}
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string) {
	file, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(instance); err != nil {
		panic(err)
	}
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	switch key {
	case "selfpath":
		return instance.SelfPath
	case "port":
		return instance.Port
	case "blocksize":
		return instance.Blocksize
	case "width":
		return instance.Width
	case "height":
		return instance.Height
	case "tick_interval":
		return instance.TickInterval
	case "max_width":
		return instance.MaxWidth
	case "max_height":
		return instance.MaxHeight
	default:
		return ""
	}
}

// GetTickInterval returns tick_interval as a duration, falling back to 100ms for non-positive values.
func GetTickInterval() time.Duration {
	if instance == nil || instance.TickInterval <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(instance.TickInterval) * time.Millisecond
}
