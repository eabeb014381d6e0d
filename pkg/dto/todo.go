package dto

import (
	"fmt"
	"strings"
)

// Todo is a todo item as served by the JSON placeholder API.
type Todo struct {
	UserID    int    `json:"userId"`
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// String renders the todo in its display form, e.g.
//
//	Todo { UserId = 1, Id = 3, Title = fugiat veniam minus, Completed = False }
func (t Todo) String() string {
	return fmt.Sprintf("Todo { UserId = %d, Id = %d, Title = %s, Completed = %s }",
		t.UserID, t.ID, t.Title, displayBool(t.Completed))
}

func displayBool(b bool) string {
	s := fmt.Sprint(b)
	return strings.ToUpper(s[:1]) + s[1:]
}
