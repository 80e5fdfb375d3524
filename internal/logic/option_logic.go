package logic

import (
	"context"
	"errors"
	"strings"
	"time"

	"opsadmin/common/logger"
	"opsadmin/common/utils"
	"opsadmin/internal/formdialog"
	"opsadmin/internal/svc"
	"opsadmin/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const optionsCachePrefix = "opsadmin:options:"

// OptionLogic 下拉选项逻辑
type OptionLogic struct {
	ctx   context.Context
	fiber *fiber.Ctx
}

// NewOptionLogic 创建下拉选项逻辑
func NewOptionLogic(c *fiber.Ctx) *OptionLogic {
	return &OptionLogic{ctx: c.UserContext(), fiber: c}
}

// Options 按来源与搜索词返回选项，拉取失败时返回空列表
func (l *OptionLogic) Options(source, search string) (*types.OptionsResponse, error) {
	res, err := Resources().Get(source)
	if err != nil {
		return nil, err
	}
	if !res.Info().OptionSource {
		return nil, ErrNoOptions
	}

	cfg := svc.Ctx.Config.Options
	search = strings.TrimSpace(search)
	resp := &types.OptionsResponse{Source: source, Search: search}

	key := optionsCacheKey(source, search)
	if opts, ok := l.cached(key); ok {
		resp.Options, resp.Cached = opts, true
		return resp, nil
	}

	fetch := func(ctx context.Context, text string) ([]formdialog.Option, error) {
		return res.Options(ctx, text, cfg.Limit)
	}
	cb := formdialog.NewCombobox(source, fetch,
		formdialog.WithGroup(svc.Ctx.Options),
		formdialog.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
	)
	defer cb.Close()

	resp.Options = cb.Load(l.ctx, search)
	l.store(key, resp.Options)
	return resp, nil
}

func (l *OptionLogic) cached(key string) ([]formdialog.Option, bool) {
	rdb := svc.Ctx.Redis
	if rdb == nil || svc.Ctx.Config.Options.CacheTTL <= 0 {
		return nil, false
	}
	data, err := rdb.Get(l.ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("读取选项缓存失败", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var opts []formdialog.Option
	if err := utils.UnmarshalString(data, &opts); err != nil {
		return nil, false
	}
	return opts, true
}

// store 只缓存非空结果，空结果可能是拉取失败
func (l *OptionLogic) store(key string, opts []formdialog.Option) {
	rdb := svc.Ctx.Redis
	ttl := svc.Ctx.Config.Options.CacheTTL
	if rdb == nil || ttl <= 0 || len(opts) == 0 {
		return
	}
	data, err := utils.MarshalString(opts)
	if err != nil {
		return
	}
	if err := rdb.Set(l.ctx, key, data, time.Duration(ttl)*time.Second).Err(); err != nil {
		logger.Warn("写入选项缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func optionsCacheKey(source, search string) string {
	return optionsCachePrefix + source + ":" + search
}

// InvalidateOptions 资源数据变化后清除其选项缓存
func InvalidateOptions(ctx context.Context, rdb *redis.Client, source string) {
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, optionsCachePrefix+source+":*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("扫描选项缓存失败", zap.String("source", source), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("清除选项缓存失败", zap.String("source", source), zap.Error(err))
	}
}
