package infra

// pdf.go generates thermal receipt-style PDF tickets for orders:
//   - Store name header (from store settings)
//   - Order number and timestamp
//   - Item table (product name, quantity, subtotal)
//   - Bold total and payment method
//   - Optional receipt footer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF writes a PDF receipt for the order into storagePath
// (created if needed) and returns the file path.
func GenerateReceiptPDF(order *model.Order, setting *model.StoreSetting, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%d.pdf", order.OrderNumber)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm x 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	storeName := "Lanchonete PDV"
	if setting != nil && setting.StoreName != "" {
		storeName = setting.StoreName
	}

	// Header
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprovante de Venda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Order info
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Pedido N. %d", order.OrderNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, order.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if order.CustomerName != nil && *order.CustomerName != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+*order.CustomerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// Items
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW*0.55, 4, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.15, 4, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.30, 4, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range order.Items {
		name := item.ProductID.String()[:8]
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(contentW*0.55, 4, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 4, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.30, 4, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	// Total
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.5, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 6, "R$ "+order.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Pagamento: "+paymentLabel(order.PaymentMethod), "", 1, "L", false, 0, "")

	// Footer
	if setting != nil && setting.ReceiptFooter != nil && *setting.ReceiptFooter != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.MultiCell(contentW, 3, *setting.ReceiptFooter, "", "C", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

func paymentLabel(method string) string {
	switch method {
	case model.PaymentCash:
		return "Dinheiro"
	case model.PaymentCreditCard:
		return "Cartao de Credito"
	case model.PaymentDebitCard:
		return "Cartao de Debito"
	case model.PaymentPix:
		return "PIX"
	}
	return method
}
