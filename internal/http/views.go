package httpx

import (
	"time"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
)

func marshalUser(user *domain.User) map[string]any {
	return map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
}

func marshalProfile(profile *domain.Profile) map[string]any {
	if profile == nil {
		return nil
	}
	out := map[string]any{
		"id":        profile.ID,
		"kind":      profile.Kind,
		"createdAt": profile.CreatedAt.UTC().Format(time.RFC3339),
	}
	switch profile.Kind {
	case domain.ProfileKindStudent:
		if s := profile.Student; s != nil {
			out["fullName"] = s.FullName
			out["studentId"] = s.StudentID
			out["department"] = s.Department
			out["batch"] = s.Batch
			out["phone"] = s.Phone
			out["email"] = s.Email
		}
	case domain.ProfileKindTeacher:
		if t := profile.Teacher; t != nil {
			out["fullName"] = t.FullName
			out["email"] = t.Email
			out["department"] = t.Department
			out["designation"] = t.Designation
			out["phone"] = t.Phone
		}
	}
	return out
}

func marshalCourse(c domain.Course) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"courseCode": c.CourseCode,
		"courseName": c.CourseName,
		"credit":     c.Credit,
		"department": c.Department,
		"semester":   c.Semester,
		"teacherId":  c.TeacherID,
		"createdAt":  c.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":  c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func marshalCourses(courses []domain.Course) []map[string]any {
	out := make([]map[string]any, 0, len(courses))
	for _, c := range courses {
		out = append(out, marshalCourse(c))
	}
	return out
}

func marshalEvent(e domain.Event) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"title":       e.Title,
		"date":        e.Date.UTC().Format(time.RFC3339),
		"location":    e.Location,
		"description": e.Description,
		"createdBy":   e.CreatedBy,
		"createdAt":   e.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func marshalEvents(events []domain.Event) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, marshalEvent(e))
	}
	return out
}
