package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SummaryGenerator — интерфейс (удобно мокать в тестах)
type SummaryGenerator interface {
	GenerateSummary(data SummaryData) (string, error)
}

// SheetGenerator — реализация: анкета-выписка по заявителю рядом с его
// документами (RootDir/<iin>/).
type SheetGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // путь до TTF с кириллицей
	fontName string
}

type SummaryData struct {
	IIN       string
	FirstName string
	LastName  string
	District  string
	CreatedAt time.Time
	Filename  string // если пусто — сгенерируем
}

func NewSheetGenerator(rootDir, fontPath string) *SheetGenerator {
	return &SheetGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

func (g *SheetGenerator) GenerateSummary(data SummaryData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = "summary.pdf"
	}
	absPath, err := g.ensureTarget(data.IIN, filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Анкета %s", data.IIN), false)
	pdf.SetAuthor("ZhasQoldau", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "АНКЕТА УЧАСТНИКА", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("от %s", data.CreatedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Данные заявителя
	g.sectionTitle(pdf, "Заявитель")
	g.kvLine(pdf, "Фамилия", data.LastName)
	g.kvLine(pdf, "Имя", data.FirstName)
	g.kvLine(pdf, "ИИН", data.IIN)
	g.kvLine(pdf, "Район", data.District)
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Приложенные документы
	g.sectionTitle(pdf, "Документы")
	pdf.SetFont(g.fontName, "", 11)
	lines := []string{
		"1. Фотография заявителя.",
		"2. Скан документа с ИИН.",
		"3. Подтверждение адреса проживания.",
	}
	for _, t := range lines {
		pdf.MultiCell(0, 6, t, "", "L", false)
	}

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Стр. %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(data.IIN, filepath.Base(absPath))), nil
}

// ===== helpers =====

func (g *SheetGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *SheetGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *SheetGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *SheetGenerator) ensureTarget(iin, filename string) (string, error) {
	dir := filepath.Join(g.RootDir, iin)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(dir, filename), nil
}

func (g *SheetGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	// AddUTF8Font принимает путь до TTF
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}
