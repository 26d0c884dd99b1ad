package handler

import (
	"net/http"

	"stash/config"
	"stash/middleware"
	"stash/pkg/context"
	"stash/pkg/response"
	"stash/service"
	"stash/types"

	"github.com/gin-gonic/gin"
)

type CommentsHandler struct {
	Config          *config.Config
	CommentsService service.ICommentsService
}

func (ch *CommentsHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(ch.Config.Jwt)
	optional := middleware.OptionalAuth(ch.Config.Jwt)
	comments := r.Group("/v1/comments")
	comments.POST("/create", authorize, context.Wrap(ch.CreateComment)) //创建评论
	comments.POST("/update", authorize, context.Wrap(ch.UpdateComment))
	comments.GET("/list/:note_id", optional, context.Wrap(ch.GetComments))
	comments.GET("/replies/:root_id", optional, context.Wrap(ch.GetReplyComments))
	comments.POST("/delete", authorize, context.Wrap(ch.DeleteComment))
	comments.POST("/like", authorize, context.Wrap(ch.ToggleLike)) //点赞 / 取消点赞
}

// CreateComment 创建评论
func (ch *CommentsHandler) CreateComment(c *gin.Context) error {
	var req types.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	comment, err := ch.CommentsService.CreateComment(c, &req, userID)
	if err != nil {
		return err
	}
	response.Success(c, comment)
	return nil
}

func (ch *CommentsHandler) UpdateComment(c *gin.Context) error {
	var req types.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	comment, err := ch.CommentsService.UpdateComment(c, &req, userID)
	if err != nil {
		return err
	}
	response.Success(c, comment)
	return nil
}

// GetComments 获取评论列表(游标分页)
func (ch *CommentsHandler) GetComments(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	cursor, err := queryUint(c, "cursor")
	if err != nil {
		return err
	}
	pageSize := queryInt(c, "page_size", 20)

	resp, err := ch.CommentsService.GetComments(c, noteID, cursor, pageSize, context.OptionalUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// GetReplyComments 获取回复列表, 按时间正序
func (ch *CommentsHandler) GetReplyComments(c *gin.Context) error {
	rootID, err := paramID(c, "root_id")
	if err != nil {
		return err
	}
	cursor, err := queryUint(c, "cursor")
	if err != nil {
		return err
	}
	pageSize := queryInt(c, "page_size", 20)

	resp, err := ch.CommentsService.GetReplies(c, rootID, cursor, pageSize, context.OptionalUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (ch *CommentsHandler) DeleteComment(c *gin.Context) error {
	var req types.CommentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	if err := ch.CommentsService.DeleteComment(c, req.CommentID, userID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (ch *CommentsHandler) ToggleLike(c *gin.Context) error {
	var req types.CommentIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	resp, err := ch.CommentsService.ToggleLike(c, req.CommentID, userID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
