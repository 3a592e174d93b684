package community

import (
	"cryptomood-backend/internal/errors"
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/service"
	"cryptomood-backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommunityHandler struct {
	communityService *service.CommunityService
	userService      *service.UserService
}

func NewCommunityHandler(communityService *service.CommunityService, userService *service.UserService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
		userService:      userService,
	}
}

// createPostRequest 发帖请求体，字段和校验规则都是显式的
type createPostRequest struct {
	Content         string `json:"content" binding:"required"`
	Mood            int    `json:"mood" binding:"required,min=1,max=10"`
	MarketSentiment string `json:"market_sentiment" binding:"required,oneof=bullish bearish neutral"`
	CryptoSymbol    string `json:"crypto_symbol" binding:"omitempty,cryptosymbol"`
	Tags            string `json:"tags"`
}

func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	post := &model.Post{
		UserID:          userID,
		Username:        user.Username,
		Content:         req.Content,
		Mood:            req.Mood,
		MarketSentiment: req.MarketSentiment,
		CryptoSymbol:    req.CryptoSymbol,
	}

	if err := h.communityService.CreatePost(post, req.Tags); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 201,
		"data": post,
	})
}

func (h *CommunityHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := model.FeedFilter{
		Tag:       c.Query("tag"),
		Symbol:    c.Query("symbol"),
		Sentiment: c.Query("sentiment"),
	}

	posts, pagination, err := h.communityService.GetFeed(filter, page, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 为已登录用户补全点赞状态
	if userID, exists := c.Get("user_id"); exists {
		h.communityService.MarkLikedBy(posts, userID.(int))
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"posts":      posts,
			"pagination": pagination,
		},
	})
}

func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	post, err := h.communityService.GetPostByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if userID, exists := c.Get("user_id"); exists {
		h.communityService.MarkLikedBy([]*model.Post{post}, userID.(int))
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": post,
	})
}

// ToggleLike 点赞开关：已点赞则取消，否则添加
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	userID := c.GetInt("user_id")
	isLiked, likeCount, err := h.communityService.ToggleLike(postID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	message := "Post unliked"
	if isLiked {
		message = "Post liked"
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"post_id":     postID,
			"is_liked":    isLiked,
			"likes_count": likeCount,
		},
		"message": message,
	})
}

type createCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommunityHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Comment content is required", err))
		return
	}

	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	comment, err := h.communityService.AddComment(postID, userID, user.Username, req.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("评论创建成功",
		zap.Int("post_id", postID),
		zap.Int("comment_id", comment.ID))

	c.JSON(http.StatusCreated, gin.H{
		"code":    201,
		"data":    comment,
		"message": "Comment added successfully",
	})
}

func (h *CommunityHandler) ListComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的帖子ID"))
		return
	}

	comments, err := h.communityService.GetComments(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"comments": comments,
			"total":    len(comments),
		},
	})
}

// GetCommunityStats 社区统计快照
func (h *CommunityHandler) GetCommunityStats(c *gin.Context) {
	stats, err := h.communityService.GetCommunityStats()
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": stats,
	})
}
