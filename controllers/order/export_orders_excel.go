package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/orders/export-excel
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderNumber", "UserID", "Status", "PaymentStatus", "PaymentMethod",
			"Subtotal", "Tax", "ShippingCost", "Discount", "Total", "Currency",
			"Items", "TrackingNumber", "Carrier", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.PaymentMethod)
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.Tax)
			row.AddCell().SetValue(o.ShippingCost)
			row.AddCell().SetValue(o.Discount)
			row.AddCell().SetValue(o.Total)
			row.AddCell().SetValue(o.Currency)
			row.AddCell().SetValue(strconv.Itoa(len(o.Items)))
			row.AddCell().SetValue(o.TrackingNumber)
			row.AddCell().SetValue(o.Carrier)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		}
	}
}
