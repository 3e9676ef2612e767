package controllers

import (
	"net/http"

	"salonbiz-backend/services"

	"github.com/gin-gonic/gin"
)

type MonthStatisticsResponse struct {
	Orders    int64  `json:"orders"`
	Income    string `json:"income"`
	Expense   string `json:"expense"`
	NetProfit string `json:"net_profit"`
}

type OrderTypeStatisticsResponse struct {
	OrderType       string `json:"order_type"`
	Orders          int64  `json:"orders"`
	Total           string `json:"total"`
	ThisMonthOrders int64  `json:"this_month_orders"`
	ThisMonthTotal  string `json:"this_month_total"`
}

// StatisticsResponse mirrors services.Statistics with money rendered as
// fixed two-decimal strings.
type StatisticsResponse struct {
	TotalOrders   int64                         `json:"total_orders"`
	IncomeOrders  int64                         `json:"income_orders"`
	ExpenseOrders int64                         `json:"expense_orders"`
	TotalIncome   string                        `json:"total_income"`
	TotalExpense  string                        `json:"total_expense"`
	NetProfit     string                        `json:"net_profit"`
	ThisMonth     MonthStatisticsResponse       `json:"this_month"`
	ByOrderType   []OrderTypeStatisticsResponse `json:"by_order_type"`
}

func serializeMonth(m services.MonthStatistics) MonthStatisticsResponse {
	return MonthStatisticsResponse{
		Orders:    m.Orders,
		Income:    money(m.Income),
		Expense:   money(m.Expense),
		NetProfit: money(m.NetProfit),
	}
}

func (oc *OrderController) Statistics(c *gin.Context) {
	stats, err := oc.reports.Statistics(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, oc.logger)
		return
	}
	c.JSON(http.StatusOK, StatisticsResponse{
		TotalOrders:   stats.TotalOrders,
		IncomeOrders:  stats.IncomeOrders,
		ExpenseOrders: stats.ExpenseOrders,
		TotalIncome:   money(stats.TotalIncome),
		TotalExpense:  money(stats.TotalExpense),
		NetProfit:     money(stats.NetProfit),
		ThisMonth:     serializeMonth(stats.ThisMonth),
		ByOrderType: mapSlice(stats.ByOrderType, func(s *services.OrderTypeStatistics) OrderTypeStatisticsResponse {
			return OrderTypeStatisticsResponse{
				OrderType:       s.OrderType,
				Orders:          s.Orders,
				Total:           money(s.Total),
				ThisMonthOrders: s.MonthOrders,
				ThisMonthTotal:  money(s.MonthTotal),
			}
		}),
	})
}
