package ums

import "context"

func (c *client) fetchBasicInfo(ctx context.Context) (map[string]string, error) {
	var students []map[string]any
	err := c.dashboardCall(ctx, "GetStudentBasicInformation", nil, &students)
	if err != nil {
		return nil, err
	}
	return parseBasicInfo(students), nil
}

// parseBasicInfo keeps the non-empty fields of the first student record,
// the picture is dropped.
func parseBasicInfo(students []map[string]any) map[string]string {
	out := map[string]string{}
	if len(students) == 0 {
		return out
	}
	for key, value := range students[0] {
		if key == "StudentPicture" {
			continue
		}
		text, ok := stringify(value)
		if !ok || text == "" || text == "null" {
			continue
		}
		out[key] = text
	}
	return out
}
