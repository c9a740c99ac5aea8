package main

import (
	"context"
	"log"
	"os"

	"github.com/hoshinonyaruko/grid-snake/api"
	"github.com/hoshinonyaruko/grid-snake/config"
	"github.com/hoshinonyaruko/grid-snake/memimg"
)

func main() {
	EnsureFoldersExist()
	// Initialize the configuration
	config.LoadConfig("./config.json")
	// 获取blockSize
	blockSize := config.GetConfigValue("blocksize").(int)
	// 载入贴图到内存
	if err := memimg.LoadTiles("./tiles", blockSize); err != nil {
		log.Printf("Failed to load tiles: %v", err)
	}
	// 检测并热更新到内存 加速绘图
	go func() {
		if err := memimg.WatchTiles(context.Background(), "./tiles", blockSize); err != nil {
			log.Printf("Tile watcher stopped: %v", err)
		}
	}()

	reg := api.NewRegistry(api.Options{
		TickInterval:  config.GetTickInterval(),
		BlockSize:     blockSize,
		DefaultWidth:  config.GetConfigValue("width").(int),
		DefaultHeight: config.GetConfigValue("height").(int),
		MaxWidth:      config.GetConfigValue("max_width").(int),
		MaxHeight:     config.GetConfigValue("max_height").(int),
		StaticDir:     "./static",
		SelfPath:      config.GetConfigValue("selfpath").(string),
	})
	defer reg.Close()

	router := api.NewRouter(reg)
	// 从配置单例读取端口 监听
	if err := router.Run(":" + config.GetConfigValue("port").(string)); err != nil {
		log.Fatal(err)
	}
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist() {
	folders := []string{"static", "tiles"}

	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.Mkdir(folder, 0755)
			if err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
