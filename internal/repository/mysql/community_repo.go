package mysql

import (
	"cryptomood-backend/internal/model"
	"cryptomood-backend/internal/util"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type communityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) *communityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) CreatePost(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 插入帖子
	query := `INSERT INTO posts (user_id, username, content, mood, market_sentiment, crypto_symbol, is_public, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query,
		post.UserID, post.Username, post.Content, post.Mood,
		post.MarketSentiment, nullableSymbol(post.CryptoSymbol), post.IsPublic)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新帖子ID失败", zap.Error(err))
		return err
	}
	post.ID = int(postID)

	// 插入标签
	if len(post.Tags) > 0 {
		query = `INSERT INTO post_tags (post_id, tag) VALUES (?, ?)`
		for _, tag := range post.Tags {
			if _, err = tx.Exec(query, postID, tag); err != nil {
				util.Logger.Error("插入帖子标签失败", zap.Error(err))
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

func (r *communityRepository) GetPostByID(id int) (*model.Post, error) {
	query := `
        SELECT id, user_id, username, content, mood, market_sentiment, crypto_symbol,
               is_public, created_at, updated_at
        FROM posts
        WHERE id = ?`

	var post model.Post
	var symbol sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&post.ID, &post.UserID, &post.Username, &post.Content, &post.Mood,
		&post.MarketSentiment, &symbol, &post.IsPublic,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	post.CryptoSymbol = symbol.String

	if err := r.loadPostDetails(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublicPosts 按过滤条件分页获取公开帖子，按创建时间倒序
func (r *communityRepository) ListPublicPosts(filter model.FeedFilter, page, limit int) ([]*model.Post, int, error) {
	conds := r.feedConditions(filter)

	// 先获取匹配总数
	countSQL, countArgs, err := sq.Select("COUNT(*)").From("posts p").Where(conds).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRow(countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	querySQL, queryArgs, err := sq.
		Select("p.id", "p.user_id", "p.username", "p.content", "p.mood",
			"p.market_sentiment", "p.crypto_symbol", "p.is_public",
			"p.created_at", "p.updated_at").
		From("posts p").
		Where(conds).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(querySQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var symbol sql.NullString
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Username, &post.Content, &post.Mood,
			&post.MarketSentiment, &symbol, &post.IsPublic,
			&post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		post.CryptoSymbol = symbol.String
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// 为每个帖子补全标签、点赞和评论
	for _, post := range posts {
		if err := r.loadPostDetails(post); err != nil {
			return nil, 0, err
		}
	}

	return posts, total, nil
}

// feedConditions 把可选过滤条件组合成 WHERE 子句
func (r *communityRepository) feedConditions(filter model.FeedFilter) sq.And {
	conds := sq.And{sq.Eq{"p.is_public": true}}

	if tag := strings.ToLower(strings.TrimSpace(filter.Tag)); tag != "" {
		conds = append(conds, sq.Expr(
			"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag = ?)", tag))
	}
	if symbol := strings.ToUpper(strings.TrimSpace(filter.Symbol)); symbol != "" {
		conds = append(conds, sq.Eq{"p.crypto_symbol": symbol})
	}
	// 非法的情绪值直接忽略，不做过滤
	if model.IsValidSentiment(filter.Sentiment) {
		conds = append(conds, sq.Eq{"p.market_sentiment": filter.Sentiment})
	}
	return conds
}

// loadPostDetails 补全帖子的标签、点赞者和评论
func (r *communityRepository) loadPostDetails(post *model.Post) error {
	tags, err := r.getPostTags(post.ID)
	if err != nil {
		return err
	}
	post.Tags = tags

	likers, err := r.GetPostLikers(post.ID)
	if err != nil {
		return err
	}
	post.Likes = likers
	post.LikeCount = len(likers)

	comments, err := r.GetCommentsByPostID(post.ID)
	if err != nil {
		return err
	}
	post.Comments = comments
	post.CommentCount = len(comments)

	return nil
}

func (r *communityRepository) getPostTags(postID int) ([]string, error) {
	rows, err := r.db.Query(`SELECT tag FROM post_tags WHERE post_id = ? ORDER BY tag ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// AddLike 插入点赞记录，靠 (user_id, post_id) 唯一键保证每人最多一次
func (r *communityRepository) AddLike(userID, postID int) error {
	query := `INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW())`
	_, err := r.db.Exec(query, userID, postID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("already liked")
		}
		util.Logger.Error("创建点赞失败", zap.Error(err))
		return err
	}
	return nil
}

func (r *communityRepository) RemoveLike(userID, postID int) error {
	_, err := r.db.Exec(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		util.Logger.Error("删除点赞失败", zap.Error(err))
	}
	return err
}

func (r *communityRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM likes
            WHERE post_id = ? AND user_id = ?
        )
    `, postID, userID).Scan(&exists)
	return exists, err
}

func (r *communityRepository) GetLikeCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`
        SELECT COUNT(*)
        FROM likes
        WHERE post_id = ?
    `, postID).Scan(&count)
	return count, err
}

func (r *communityRepository) GetPostLikers(postID int) ([]int, error) {
	rows, err := r.db.Query(`SELECT user_id FROM likes WHERE post_id = ? ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likers := []int{}
	for rows.Next() {
		var userID int
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		likers = append(likers, userID)
	}
	return likers, rows.Err()
}

func (r *communityRepository) CreateComment(comment *model.Comment) error {
	query := `INSERT INTO comments (post_id, user_id, username, content, created_at)
              VALUES (?, ?, ?, ?, NOW())`

	result, err := r.db.Exec(query,
		comment.PostID, comment.UserID, comment.Username, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Int("post_id", comment.PostID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新评论ID失败", zap.Error(err))
		return err
	}
	comment.ID = int(id)
	comment.CreatedAt = time.Now()

	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID))
	return nil
}

// GetCommentsByPostID 获取帖子的全部评论，最新的在前
func (r *communityRepository) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	query := `
        SELECT id, post_id, user_id, username, content, created_at
        FROM comments
        WHERE post_id = ?
        ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID,
			&comment.Username, &comment.Content, &comment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

func (r *communityRepository) GetCommentCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = ?", postID).Scan(&count)
	return count, err
}

func (r *communityRepository) CountPublicPosts() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM posts WHERE is_public = TRUE").Scan(&count)
	return count, err
}

func (r *communityRepository) CountPublicPostsSince(t time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM posts WHERE is_public = TRUE AND created_at >= ?", t).Scan(&count)
	return count, err
}

func (r *communityRepository) TotalLikes() (int, error) {
	var count int
	err := r.db.QueryRow(`
        SELECT COUNT(*) FROM likes l
        JOIN posts p ON l.post_id = p.id
        WHERE p.is_public = TRUE`).Scan(&count)
	return count, err
}

func (r *communityRepository) TotalComments() (int, error) {
	var count int
	err := r.db.QueryRow(`
        SELECT COUNT(*) FROM comments c
        JOIN posts p ON c.post_id = p.id
        WHERE p.is_public = TRUE`).Scan(&count)
	return count, err
}

func (r *communityRepository) AvgMood() (float64, error) {
	var avg float64
	err := r.db.QueryRow(
		"SELECT COALESCE(AVG(mood), 0) FROM posts WHERE is_public = TRUE").Scan(&avg)
	return avg, err
}

func (r *communityRepository) SentimentCounts() (map[string]int, error) {
	rows, err := r.db.Query(`
        SELECT market_sentiment, COUNT(*)
        FROM posts
        WHERE is_public = TRUE
        GROUP BY market_sentiment`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var sentiment string
		var count int
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, err
		}
		counts[sentiment] = count
	}
	return counts, rows.Err()
}

func (r *communityRepository) TrendingTags(limit int) ([]*model.TagCount, error) {
	query := `
        SELECT pt.tag, COUNT(*) AS cnt
        FROM post_tags pt
        JOIN posts p ON pt.post_id = p.id
        WHERE p.is_public = TRUE
        GROUP BY pt.tag
        ORDER BY cnt DESC, pt.tag ASC
        LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*model.TagCount{}
	for rows.Next() {
		var tc model.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, &tc)
	}
	return tags, rows.Err()
}

func (r *communityRepository) TrendingSymbols(limit int) ([]*model.SymbolStat, error) {
	query := `
        SELECT crypto_symbol, COUNT(*) AS cnt, ROUND(AVG(mood), 1)
        FROM posts
        WHERE is_public = TRUE AND crypto_symbol IS NOT NULL AND crypto_symbol <> ''
        GROUP BY crypto_symbol
        ORDER BY cnt DESC, crypto_symbol ASC
        LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := []*model.SymbolStat{}
	for rows.Next() {
		var ss model.SymbolStat
		if err := rows.Scan(&ss.Symbol, &ss.Count, &ss.AvgMood); err != nil {
			return nil, err
		}
		symbols = append(symbols, &ss)
	}
	return symbols, rows.Err()
}

func nullableSymbol(symbol string) interface{} {
	if symbol == "" {
		return nil
	}
	return symbol
}
