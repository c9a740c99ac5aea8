// Package memimg 在内存中缓存格子贴图，加速绘图。
package memimg

import (
	"context"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

var (
	tiles      = make(map[string]image.Image)
	tilesMutex sync.RWMutex
)

var tileExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// tileName maps "tiles/body.png" to "body".
func tileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isTile(path string) bool {
	return tileExts[strings.ToLower(filepath.Ext(path))]
}

// LoadTiles 载入目录下所有贴图并缩放到 blockSize。
func LoadTiles(directory string, blockSize int) error {
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isTile(path) {
			return nil
		}
		return loadTile(path, blockSize)
	})
}

func loadTile(path string, blockSize int) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	scaled := imaging.Resize(img, blockSize, blockSize, imaging.Lanczos)

	tilesMutex.Lock()
	tiles[tileName(path)] = scaled
	tilesMutex.Unlock()
	return nil
}

func dropTile(path string) {
	tilesMutex.Lock()
	delete(tiles, tileName(path))
	tilesMutex.Unlock()
}

// WatchTiles 检测贴图目录并热更新到内存，直到 ctx 结束。
func WatchTiles(ctx context.Context, directory string, blockSize int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTile(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create:
				// 文件可能还没写完，解码失败时等待下一次写事件
				if err := loadTile(event.Name, blockSize); err != nil {
					log.Printf("reload tile %s: %v", event.Name, err)
				}
			case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
				dropTile(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("tile watcher error:", err)
		}
	}
}

func GetTile(name string) (image.Image, bool) {
	tilesMutex.RLock()
	img, exists := tiles[name]
	tilesMutex.RUnlock()
	return img, exists
}
