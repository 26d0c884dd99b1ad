package handler

import (
	"stash/config"
	"stash/middleware"
	"stash/pkg/context"
	"stash/pkg/response"
	"stash/service"

	"github.com/gin-gonic/gin"
)

type Reputation struct {
	Config            *config.Config
	ReputationService service.IReputationService
}

func (h *Reputation) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(h.Config.Jwt)
	g := r.Group("/v1/reputation")
	g.GET("/me", authorize, context.Wrap(h.Me))
	g.GET("/logs", authorize, context.Wrap(h.Logs))
	g.GET("/leaderboard", context.Wrap(h.Leaderboard))
	g.GET("/user/:user_id", context.Wrap(h.Summary))
	g.GET("/user/:user_id/badges", context.Wrap(h.Badges))
}

func (h *Reputation) Me(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.ReputationService.GetSummary(c, uid)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Reputation) Summary(c *gin.Context) error {
	uid, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	resp, err := h.ReputationService.GetSummary(c, uid)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Reputation) Badges(c *gin.Context) error {
	uid, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	badges, err := h.ReputationService.ListBadges(c, uid)
	if err != nil {
		return err
	}
	response.Success(c, badges)
	return nil
}

func (h *Reputation) Leaderboard(c *gin.Context) error {
	items, err := h.ReputationService.Leaderboard(c, queryInt(c, "limit", 10))
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

// Logs 积分流水, 游标为上一页最后一条记录 id
func (h *Reputation) Logs(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	cursor, err := queryUint(c, "cursor")
	if err != nil {
		return err
	}
	resp, err := h.ReputationService.ListLogs(c, uid, cursor, queryInt(c, "limit", 20))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
