// Package adminweb — handlers.go реализует страницы и действия панели.
// Все мутации идут через те же сервисы, что и бот: панель не лезет
// в таблицы напрямую (кроме чисто админских операций со счетами).
package adminweb

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"adskiybank.ru/telegram-bot/internal/common"
)

// handleIndex рендерит главную страницу: статистика, рейтинг, формы операций.
func (s *Server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := s.reportsService.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта статистики для панели")
		c.String(http.StatusInternalServerError, "ошибка статистики")
		return
	}
	ranking, err := s.reportsService.NFTRanking(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка рейтинга для панели")
		c.String(http.StatusInternalServerError, "ошибка рейтинга")
		return
	}

	adminRequests.WithLabelValues("index", "ok").Inc()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err = indexTmpl.Execute(c.Writer, gin.H{
		"Stats":   stats,
		"Ranking": ranking,
		"Message": c.Query("msg"),
	})
	if err != nil {
		log.WithError(err).Error("Ошибка рендера панели")
	}
}

// handleExportCSV выгружает все счета в CSV.
func (s *Server) handleExportCSV(c *gin.Context) {
	users, err := s.accountStore.ListAll(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка экспорта пользователей")
		c.String(http.StatusInternalServerError, "ошибка экспорта")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="users.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"user_id", "username", "balance", "last_daily", "is_admin", "created_at"})
	for _, u := range users {
		lastDaily := ""
		if u.LastDaily != nil {
			lastDaily = u.LastDaily.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			strconv.FormatInt(u.UserID, 10),
			u.Username,
			strconv.FormatInt(u.Balance, 10),
			lastDaily,
			strconv.FormatBool(u.IsAdmin),
			u.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.WithError(err).Error("Ошибка записи CSV")
	}
	adminRequests.WithLabelValues("export", "ok").Inc()
}

// handleAddPrize добавляет приз из формы панели.
func (s *Server) handleAddPrize(c *gin.Context) {
	cost, err := strconv.ParseInt(c.PostForm("cost"), 10, 64)
	if err != nil {
		s.redirectMsg(c, "❌ Цена должна быть числом")
		return
	}
	stock := -1
	if raw := c.PostForm("stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil {
			s.redirectMsg(c, "❌ Количество должно быть числом")
			return
		}
	}
	isNFT := c.PostForm("nft") != ""

	prize, err := s.shopService.AddPrize(c.Request.Context(),
		c.PostForm("name"), cost, c.PostForm("description"), stock, isNFT)
	if err != nil {
		adminRequests.WithLabelValues("add_prize", "fail").Inc()
		s.redirectMsg(c, "❌ "+err.Error())
		return
	}

	adminPrizesCreated.Inc()
	adminRequests.WithLabelValues("add_prize", "ok").Inc()
	s.redirectMsg(c, fmt.Sprintf("✅ Приз «%s» добавлен", prize.Name))
}

// handleDeposit начисляет абаюнды по нику.
func (s *Server) handleDeposit(c *gin.Context) {
	amount, err := strconv.ParseInt(c.PostForm("amount"), 10, 64)
	if err != nil {
		s.redirectMsg(c, "❌ Сумма должна быть числом")
		return
	}

	user, err := s.accountStore.GetByUsername(c.Request.Context(), c.PostForm("username"))
	if err != nil {
		adminRequests.WithLabelValues("deposit", "fail").Inc()
		s.redirectMsg(c, "❌ Пользователь не найден")
		return
	}

	if err := s.ledgerService.Deposit(c.Request.Context(), user.UserID, amount); err != nil {
		adminRequests.WithLabelValues("deposit", "fail").Inc()
		s.redirectMsg(c, "❌ "+err.Error())
		return
	}

	adminDeposits.Inc()
	adminRequests.WithLabelValues("deposit", "ok").Inc()
	s.redirectMsg(c, fmt.Sprintf("✅ Начислено %s пользователю @%s",
		common.FormatBalance(amount), user.Username))
}

// handleDeleteUser удаляет счёт по нику.
func (s *Server) handleDeleteUser(c *gin.Context) {
	username := c.PostForm("username")
	if err := s.accountStore.DeleteByUsername(c.Request.Context(), username); err != nil {
		adminRequests.WithLabelValues("delete_user", "fail").Inc()
		s.redirectMsg(c, "❌ "+err.Error())
		return
	}

	log.WithField("username", username).Warn("Счёт удалён через панель")
	adminRequests.WithLabelValues("delete_user", "ok").Inc()
	s.redirectMsg(c, fmt.Sprintf("✅ Счёт @%s удалён", username))
}

// handleResetUsers удаляет все счета (кроме системного).
func (s *Server) handleResetUsers(c *gin.Context) {
	if err := s.accountStore.ResetAll(c.Request.Context()); err != nil {
		adminRequests.WithLabelValues("reset", "fail").Inc()
		s.redirectMsg(c, "❌ "+err.Error())
		return
	}

	log.Warn("Все счета удалены через панель")
	adminRequests.WithLabelValues("reset", "ok").Inc()
	s.redirectMsg(c, "✅ Все счета удалены")
}

func (s *Server) redirectMsg(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/?msg="+url.QueryEscape(msg))
}
