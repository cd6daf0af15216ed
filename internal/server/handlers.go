package server

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/hogar/internal/export"
	"github.com/julianstephens/hogar/internal/ledger"
	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type taskRequest struct {
	Category    string `json:"category"`
	Task        string `json:"task"`
	Responsible string `json:"responsible" validate:"omitempty,party"`
	AssignedDay string `json:"assignedDay" validate:"omitempty,weekday"`
}

type activityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Day         string `json:"day" validate:"omitempty,weekday"`
	Time        string `json:"time" validate:"omitempty,clock"`
	Responsible string `json:"responsible" validate:"omitempty,party"`
}

type paymentRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Category    string          `json:"category" validate:"omitempty,paymentcategory"`
}

type financeRequest struct {
	Value *decimal.Decimal `json:"value"`
}

type taskDay struct {
	Day   models.Weekday `json:"day"`
	Tasks []models.Task  `json:"tasks"`
}

type taskBoardResponse struct {
	Unassigned []models.Task `json:"unassigned"`
	Days       []taskDay     `json:"days"`
	Total      int           `json:"total"`
}

type activityDay struct {
	Day        models.Weekday          `json:"day"`
	Activities []models.WeeklyActivity `json:"activities"`
}

type financesResponse struct {
	models.FinanceTotals
	Balance decimal.Decimal `json:"availableBalance"`
}

// parse reads and shape-checks a JSON body. It writes the 400 response
// itself and reports false when the handler should stop.
func (s *Server) parse(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := s.validate.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid field value",
			"error":   err.Error(),
		})
	}
	return true, nil
}

func notApplied(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"applied": false})
}

func applied(c *fiber.Ctx, ok bool) error {
	return c.JSON(fiber.Map{"applied": ok})
}

func created(c *fiber.Ctx, key string, record interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"applied": true, key: record})
}

// optionalParty parses a validated party name; empty stays empty so the
// ledger applies its default.
func optionalParty(s string) models.Party {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	p, _ := models.ParseParty(s)
	return p
}

func optionalWeekday(s string) models.Weekday {
	d, _ := models.ParseWeekday(s)
	return d
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	var filter ledger.TaskFilter
	switch who := strings.TrimSpace(c.Query("responsible")); strings.ToLower(who) {
	case "", "all", "todos":
	default:
		p, err := models.ParseParty(who)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		filter.Responsible = p
	}
	filter.Search = c.Query("search")

	board := s.sess.Tasks(filter)
	resp := taskBoardResponse{
		Unassigned: nonNil(board.Unassigned),
		Days:       make([]taskDay, 0, len(models.Weekdays)),
		Total:      board.Len(),
	}
	for _, d := range models.Weekdays {
		resp.Days = append(resp.Days, taskDay{Day: d, Tasks: nonNil(board.Day(d))})
	}
	return c.JSON(resp)
}

func (s *Server) addTask(c *fiber.Ctx) error {
	var req taskRequest
	if ok, err := s.parse(c, &req); !ok {
		return err
	}
	task, ok := s.sess.AddTask(ledger.NewTask{
		Category:    req.Category,
		Description: req.Task,
		Responsible: optionalParty(req.Responsible),
		AssignedDay: optionalWeekday(req.AssignedDay),
	})
	if !ok {
		return notApplied(c)
	}
	return created(c, "task", task)
}

func (s *Server) toggleTask(c *fiber.Ctx) error {
	return applied(c, s.sess.ToggleTask(c.Params("id")))
}

func (s *Server) listActivities(c *fiber.Ctx) error {
	week := s.sess.Week()
	days := make([]activityDay, 0, len(models.Weekdays))
	for _, d := range models.Weekdays {
		days = append(days, activityDay{Day: d, Activities: nonNil(week.Day(d))})
	}
	return c.JSON(days)
}

func (s *Server) addActivity(c *fiber.Ctx) error {
	var req activityRequest
	if ok, err := s.parse(c, &req); !ok {
		return err
	}
	activity, ok := s.sess.AddActivity(ledger.NewActivity{
		Title:       req.Title,
		Description: req.Description,
		Day:         optionalWeekday(req.Day),
		Time:        req.Time,
		Responsible: optionalParty(req.Responsible),
	})
	if !ok {
		return notApplied(c)
	}
	return created(c, "activity", activity)
}

func (s *Server) toggleActivity(c *fiber.Ctx) error {
	return applied(c, s.sess.ToggleActivity(c.Params("id")))
}

func (s *Server) deleteActivity(c *fiber.Ctx) error {
	return applied(c, s.sess.DeleteActivity(c.Params("id")))
}

func (s *Server) listPayments(c *fiber.Ctx) error {
	return c.JSON(nonNil(s.sess.Payments()))
}

func (s *Server) addPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if ok, err := s.parse(c, &req); !ok {
		return err
	}
	var due models.Date
	if req.DueDate != "" {
		d, err := models.ParseDate(req.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		due = d
	}
	var category models.PaymentCategory
	if req.Category != "" {
		category, _ = models.ParsePaymentCategory(req.Category)
	}
	payment, ok := s.sess.AddPayment(ledger.NewPayment{
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     due,
		Category:    category,
	})
	if !ok {
		return notApplied(c)
	}
	return created(c, "payment", payment)
}

func (s *Server) togglePayment(c *fiber.Ctx) error {
	return applied(c, s.sess.TogglePayment(c.Params("id")))
}

func (s *Server) deletePayment(c *fiber.Ctx) error {
	return applied(c, s.sess.DeletePayment(c.Params("id")))
}

func (s *Server) getFinances(c *fiber.Ctx) error {
	totals := s.sess.Finances()
	return c.JSON(financesResponse{
		FinanceTotals: totals,
		Balance:       ledger.ComputeAvailableBalance(totals),
	})
}

func (s *Server) setFinance(c *fiber.Ctx) error {
	field, err := models.ParseFinanceField(c.Params("field"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	var req financeRequest
	if ok, err := s.parse(c, &req); !ok {
		return err
	}
	if req.Value == nil {
		return notApplied(c)
	}
	return applied(c, s.sess.SetFinance(field, *req.Value))
}

func (s *Server) getSummary(c *fiber.Ctx) error {
	return c.JSON(s.sess.Summary())
}

func (s *Server) getStatus(c *fiber.Ctx) error {
	return c.JSON(s.sess.Status())
}

func (s *Server) exportWorkbook(c *fiber.Ctx) error {
	today := s.sess.Today()
	var buf bytes.Buffer
	err := export.Write(&buf, s.sess.Snapshot(), export.Options{
		Today:       today,
		DueSoonDays: s.sess.DueSoonDays(),
	})
	if err != nil {
		logger.Error("Failed to build workbook", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build workbook")
	}
	c.Attachment(fmt.Sprintf("hogar-%s.xlsx", today))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
