package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"codcrm/entities"
	"codcrm/models"

	"github.com/redis/go-redis/v9"
)

type CallSessionRepository interface {
	SetSession(agentId int, session entities.CallSession) (err error)
	GetSession(agentId int) (session entities.CallSession, exists bool, err error)
	DeleteSession(agentId int) (err error)
}

type CallSessionRepo struct {
	rdb *redis.Client
	ctx context.Context
}

func NewCallSessionRepository(redis_conn *redis.Client, _ctx context.Context) (CallSessionRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(_ctx).Err()
	if err != nil {
		return nil, err
	}
	return &CallSessionRepo{
		rdb: redis_conn,
		ctx: _ctx,
	}, nil
}

func callKey(agentId int) string {
	return "call:" + strconv.Itoa(agentId)
}

func (c *CallSessionRepo) SetSession(agentId int, session entities.CallSession) (err error) {
	jsonData, err := json.Marshal(session)
	if err != nil {
		log.Printf("SetSession: marshal error: %v", err)
		err = models.ErrServerError
		return
	}
	err = c.rdb.Set(c.ctx, callKey(agentId), jsonData, 12*time.Hour).Err()
	if err != nil {
		log.Printf("SetSession: redis error: %v", err)
		err = models.ErrServerError
	}
	return
}

func (c *CallSessionRepo) GetSession(agentId int) (session entities.CallSession, exists bool, err error) {
	val, e := c.rdb.Get(c.ctx, callKey(agentId)).Result()
	if e != nil {
		if e == redis.Nil {
			return
		}
		log.Printf("GetSession: redis error: %v", e)
		err = models.ErrServerError
		return
	}
	err = json.Unmarshal([]byte(val), &session)
	if err != nil {
		log.Printf("GetSession: unmarshal error: %v", err)
		err = models.ErrServerError
		return
	}
	exists = true
	return
}

func (c *CallSessionRepo) DeleteSession(agentId int) (err error) {
	err = c.rdb.Del(c.ctx, callKey(agentId)).Err()
	if err != nil {
		log.Printf("DeleteSession: %v", err)
		err = models.ErrServerError
	}
	return
}
