package controllers

import (
	"strings"

	"trainhub/database"
	"trainhub/middleware"
	"trainhub/models"
	"trainhub/utils"
	articleValidator "trainhub/validators/article"

	"github.com/gofiber/fiber/v2"
)

type articleResponse struct {
	ArticleID string   `json:"article_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Images    []string `json:"images"`
	Views     uint     `json:"views"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func splitList(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func toArticleResponse(article models.Article) articleResponse {
	return articleResponse{
		ArticleID: article.ArticleID,
		Title:     article.Title,
		Content:   article.Content,
		Category:  article.Category,
		Tags:      splitList(article.Tags),
		Images:    splitList(article.Images),
		Views:     article.Views,
		CreatedAt: article.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: article.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// AddArticle creates a new article.
func AddArticle(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedArticle").(*articleValidator.ArticleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	createdBy, _ := c.Locals("userId").(uint)

	article := models.Article{
		ArticleID: utils.GenerateCustomID("ART"),
		Title:     reqData.Title,
		Content:   reqData.Content,
		Category:  reqData.Category,
		Tags:      strings.Join(reqData.Tags, ","),
		Images:    strings.Join(reqData.Images, ","),
		CreatedBy: createdBy,
	}

	if err := database.Database.Db.Create(&article).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create article!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Article created successfully.", toArticleResponse(article))
}

// UpdateArticle replaces an article's content fields.
func UpdateArticle(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedArticle").(*articleValidator.ArticleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Validation data missing!", nil)
	}

	articleID := c.Params("article_id")
	db := database.Database.Db

	var article models.Article
	if err := db.Where("article_id = ? AND is_deleted = ?", articleID, false).First(&article).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Article not found.", nil)
	}

	article.Title = reqData.Title
	article.Content = reqData.Content
	article.Category = reqData.Category
	article.Tags = strings.Join(reqData.Tags, ",")
	article.Images = strings.Join(reqData.Images, ",")

	if err := db.Save(&article).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update article!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Article updated successfully.", toArticleResponse(article))
}

// DeleteArticle removes an article.
func DeleteArticle(c *fiber.Ctx) error {
	articleID := c.Params("article_id")
	db := database.Database.Db

	var article models.Article
	if err := db.Where("article_id = ?", articleID).First(&article).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Article not found.", nil)
	}

	if err := db.Unscoped().Delete(&article).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete article!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Article deleted successfully.", nil)
}

// GetArticles lists articles, optionally filtered by tag or search text.
func GetArticles(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.Article{}).Where("is_deleted = ?", false)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags LIKE ?", "%"+tag+"%")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	var articles []models.Article
	if err := query.Order("created_at DESC").Find(&articles).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch articles!", nil)
	}

	responses := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, toArticleResponse(article))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Articles fetched successfully.", responses)
}

// GetArticleByID returns one article and increments its view counter.
func GetArticleByID(c *fiber.Ctx) error {
	articleID := c.Params("article_id")
	db := database.Database.Db

	var article models.Article
	if err := db.Where("article_id = ? AND is_deleted = ?", articleID, false).First(&article).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Article not found.", nil)
	}

	db.Model(&article).Update("views", article.Views+1)
	article.Views++

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Article fetched successfully.", toArticleResponse(article))
}
