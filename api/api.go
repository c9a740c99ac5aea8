package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/grid-snake/render"
	"github.com/hoshinonyaruko/grid-snake/snake"
	"github.com/hoshinonyaruko/grid-snake/structs"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewRouter wires every handler of the registry.
func NewRouter(reg *Registry) *gin.Engine {
	router := gin.Default()
	// 开始新游戏
	router.GET("/new-game", NewGameHandler(reg))
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(reg))
	// 当前快照
	router.GET("/snapshot", SnapshotHandler(reg))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(reg))
	// 删除地图
	router.GET("/delete-map", DeleteMapHandler(reg))
	// 实时推送快照，同时接收方向
	router.GET("/watch", WatchHandler(reg))
	router.Static("/static", reg.opts.StaticDir) // 静态文件服务
	return router
}

func NewGameHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		if groupID == "" {
			groupID = uuid.NewString()
		}
		width, err := strconv.Atoi(c.DefaultQuery("width", strconv.Itoa(reg.opts.DefaultWidth)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be an integer"})
			return
		}
		height, err := strconv.Atoi(c.DefaultQuery("height", strconv.Itoa(reg.opts.DefaultHeight)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "height must be an integer"})
			return
		}

		session, err := reg.Start(groupID, width, height)
		if err != nil {
			if errors.Is(err, snake.ErrInvalidConfiguration) || errors.Is(err, ErrGridTooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to start game"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"group_id": groupID, "snapshot": session.Snapshot()})
	}
}

func UpdateDirection(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		newDirection := c.Query("direction")

		// 验证是否提供了必要的查询参数
		if groupID == "" || newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: groupid or direction"})
			return
		}

		direction, err := structs.ParseDirection(newDirection)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := reg.Session(groupID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		// 反方向或游戏结束后的请求会被静默忽略
		session.SetDirection(direction)
		c.JSON(http.StatusOK, gin.H{"message": "Direction updated successfully"})
	}
}

func SnapshotHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := reg.Session(c.Query("groupid"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, session.Snapshot())
	}
}

func RenderMapHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		session, err := reg.Session(groupID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		// 群ID来自外部输入，只取文件名部分
		fileName := filepath.Base(groupID) + ".png"
		if err := render.SavePNG(session.Snapshot(), reg.opts.BlockSize, filepath.Join(reg.opts.StaticDir, fileName)); err != nil {
			log.Printf("render %s: %v", groupID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}

		imageUrl := fmt.Sprintf("%s/static/%s", reg.opts.SelfPath, fileName)
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl})
	}
}

func DeleteMapHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := reg.Delete(c.Query("groupid")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Map deleted successfully"})
	}
}

// directionMessage is what a viewer sends to steer over the websocket.
type directionMessage struct {
	Direction string `json:"direction"`
}

func WatchHandler(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := reg.get(c.Query("groupid"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade: %v", err)
			return
		}
		if err := g.addViewer(conn); err != nil {
			conn.Close()
			return
		}

		for {
			var msg directionMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			// 无法识别的方向直接忽略
			if direction, err := structs.ParseDirection(msg.Direction); err == nil {
				g.session.SetDirection(direction)
			}
		}
		g.removeViewer(conn)
		conn.Close()
	}
}
