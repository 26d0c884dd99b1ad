package handler

import (
	"mime"
	"net/http"

	"stash/config"
	"stash/middleware"
	"stash/pkg/context"
	"stash/pkg/response"
	"stash/service"
	"stash/types"

	"github.com/gin-gonic/gin"
)

type Note struct {
	Config      *config.Config
	NoteService service.INoteService
}

func (n *Note) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth(n.Config.Jwt)
	optional := middleware.OptionalAuth(n.Config.Jwt)

	g := r.Group("/v1/notes")
	g.GET("/list", optional, context.Wrap(n.List))
	g.GET("/filters", context.Wrap(n.FilterOptions))
	g.GET("/mine", authorize, context.Wrap(n.Mine))
	g.POST("/upload", authorize, context.Wrap(n.Upload))
	g.POST("/delete", authorize, context.Wrap(n.Delete))
	g.GET("/:note_id", optional, context.Wrap(n.Detail))
	g.GET("/:note_id/preview", optional, context.Wrap(n.Preview))
	g.GET("/:note_id/download", authorize, context.Wrap(n.Download))
	g.GET("/:note_id/download-url", authorize, context.Wrap(n.DownloadURL))

	r.GET("/v1/share/:code", optional, context.Wrap(n.Share))
}

// Upload multipart 上传, 文件字段 file
func (n *Note) Upload(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.UploadNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	header, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest("Please choose a file to upload")
	}
	note, err := n.NoteService.Upload(c, uid, &req, header)
	if err != nil {
		return err
	}
	response.Success(c, note)
	return nil
}

func (n *Note) List(c *gin.Context) error {
	var req types.ListNotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := n.NoteService.List(c, context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Note) Mine(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := n.NoteService.Mine(c, uid, &page)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Note) FilterOptions(c *gin.Context) error {
	resp, err := n.NoteService.FilterOptions(c)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Note) Detail(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	resp, err := n.NoteService.Detail(c, context.OptionalUserID(c), noteID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Note) Share(c *gin.Context) error {
	resp, err := n.NoteService.ResolveShare(c, context.OptionalUserID(c), c.Param("code"))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Note) Preview(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	resp, err := n.NoteService.Preview(c, context.OptionalUserID(c), noteID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// Download 以附件形式返回文件流
func (n *Note) Download(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	file, err := n.NoteService.Download(c, noteID)
	if err != nil {
		return err
	}
	defer file.Body.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName})
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Body, map[string]string{
		"Content-Disposition": disposition,
	})
	return nil
}

func (n *Note) DownloadURL(c *gin.Context) error {
	noteID, err := paramID(c, "note_id")
	if err != nil {
		return err
	}
	resp, err := n.NoteService.DownloadURL(c, noteID)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Note) Delete(c *gin.Context) error {
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	var req types.NoteIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := n.NoteService.Delete(c, uid, req.NoteID, false); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
