package svc

import (
	"github.com/johnasbury91/reachh/clients/scraper"
	"github.com/johnasbury91/reachh/clients/taskserver"
	"github.com/johnasbury91/reachh/config"
	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/stores/gdb"
	"github.com/johnasbury91/reachh/stores/xkv"
)

// ServerCtx 服务依赖集合，启动时构建一次，显式注入
type ServerCtx struct {
	C          *config.Config
	Dao        *dao.Dao
	KV         *xkv.Store
	TaskServer *taskserver.Client
	Scraper    *scraper.Client
}

func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	if err := xzap.SetUp(c.Log); err != nil {
		return nil, err
	}

	db, err := gdb.Open(c.Mysql.DSN)
	if err != nil {
		return nil, err
	}

	var kv *xkv.Store
	if c.Redis.Addr != "" {
		kv, err = xkv.NewStore(c.Redis.Addr, c.Redis.Password, c.Redis.DB)
		if err != nil {
			return nil, err
		}
	}

	return &ServerCtx{
		C:   c,
		Dao: dao.NewDao(db),
		KV:  kv,
		TaskServer: taskserver.New(
			c.TaskServer.URL,
			c.TaskServer.ApiKey,
		),
		Scraper: scraper.New(
			c.Scraper.Token,
			c.Scraper.BaseURL,
			c.Scraper.CommentActor,
			c.Scraper.SearchActor,
		),
	}, nil
}
