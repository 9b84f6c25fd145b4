package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/accredit/internal/domain"
)

// FormatPrograms lists programs with the number of standards each defines.
func FormatPrograms(programs []*domain.AccreditationProgram, standardCounts map[string]int) string {
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, []string{Bold(p.ID), p.Name, fmt.Sprint(standardCounts[p.ID]), Truncate(p.Description, 50)})
	}
	return RenderTable([]string{"ID", "NAME", "STANDARDS", "DESCRIPTION"}, rows)
}

// FormatStandards lists standards and their sub-standards.
func FormatStandards(standards []*domain.Standard) string {
	rows := make([][]string, 0, len(standards))
	for _, s := range standards {
		rows = append(rows, []string{Bold(s.ID), s.ProgramID, CriticalityBadge(s.Criticality), Truncate(s.Description, 60)})
		for _, sub := range s.SubStandards {
			rows = append(rows, []string{"  " + sub.ID, "", "", Dim(Truncate(sub.Description, 60))})
		}
	}
	return RenderTable([]string{"ID", "PROGRAM", "CRITICALITY", "DESCRIPTION"}, rows)
}

// FormatUsers lists users with their outstanding training count.
func FormatUsers(users []*domain.User, now time.Time) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		open := 0
		for _, a := range u.TrainingAssignments {
			if a.CompletedAt == nil {
				open++
			}
		}
		training := Dim("-")
		if open > 0 {
			training = fmt.Sprintf("%d open", open)
		}
		if n := len(u.Overdue(now)); n > 0 {
			training += StyleRed.Render(fmt.Sprintf(" (%d overdue)", n))
		}
		rows = append(rows, []string{Dim(u.ID), Bold(u.Name), string(u.Role), u.Email, training})
	}
	return RenderTable([]string{"ID", "NAME", "ROLE", "EMAIL", "TRAINING"}, rows)
}

// FormatTrainings renders one user's training assignments.
func FormatTrainings(u *domain.User, titles map[string]string, now time.Time) string {
	if len(u.TrainingAssignments) == 0 {
		return Dim(u.Name + " has no training assignments.")
	}
	rows := make([][]string, 0, len(u.TrainingAssignments))
	for _, a := range u.TrainingAssignments {
		title := valueOr(titles[a.TrainingID], a.TrainingID)
		status := DueDateStyled(a.DueDate, now)
		if a.CompletedAt != nil {
			status = StyleGreen.Render("✔ " + a.CompletedAt.Format("2006-01-02"))
		}
		score := Dim("--")
		if a.Score != nil {
			score = fmt.Sprint(*a.Score)
		}
		rows = append(rows, []string{title, a.DueDate.Format("2006-01-02"), status, score})
	}
	return RenderTable([]string{"TRAINING", "DUE", "STATUS", "SCORE"}, rows)
}

// FormatRisks renders the risk register with matrix scores.
func FormatRisks(risks []*domain.Risk) string {
	rows := make([][]string, 0, len(risks))
	for _, r := range risks {
		status := string(r.Status)
		if r.Status == domain.RiskClosed {
			status = Dim(status)
		}
		rows = append(rows, []string{
			Dim(r.ID),
			Bold(Truncate(r.Title, 40)),
			fmt.Sprintf("%d×%d=%d", r.Likelihood, r.Impact, r.Score()),
			CriticalityBadge(r.Level()),
			status,
		})
	}
	return RenderTable([]string{"ID", "TITLE", "SCORE", "LEVEL", "STATUS"}, rows)
}

// FormatDocuments lists documents with their review status.
func FormatDocuments(docs []*domain.Document) string {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		project := Dim("--")
		if d.ProjectID != nil {
			project = TruncID(*d.ProjectID)
		}
		rows = append(rows, []string{TruncID(d.ID), Bold(Truncate(d.Name, 40)), d.Type, string(d.Status), fmt.Sprintf("v%d", d.Version), project})
	}
	return RenderTable([]string{"ID", "NAME", "TYPE", "STATUS", "VER", "PROJECT"}, rows)
}
