package jira

import (
	"fmt"
	"net/url"
)

const (
	PathSearch = "/rest/api/3/search"
	PathIssue  = "/rest/api/3/issue"
	PathBoards = "/rest/agile/1.0/board"
	PathSprint = "/rest/agile/1.0/sprint"
)

// IssuePath escapes key so it always addresses a single issue resource.
func IssuePath(key string) string {
	return fmt.Sprintf("%s/%s", PathIssue, url.PathEscape(key))
}

func BoardPath(id int) string {
	return fmt.Sprintf("%s/%d", PathBoards, id)
}

func SprintPath(id int) string {
	return fmt.Sprintf("%s/%d", PathSprint, id)
}

// EpicSearchFields are the issue fields requested when listing epics.
var EpicSearchFields = []string{"summary", "description", "status", "assignee", "created", "updated"}

// EpicSearchRequest lists epics, optionally scoped to one project.
func EpicSearchRequest(projectKey string) map[string]interface{} {
	jql := "issuetype = Epic"
	if projectKey != "" {
		jql = fmt.Sprintf("project = %s AND issuetype = Epic", projectKey)
	}
	return map[string]interface{}{
		"jql":        jql,
		"fields":     EpicSearchFields,
		"maxResults": 100,
	}
}

// CreateEpicRequest builds the issue payload. A non-empty description is sent
// as an Atlassian Document Format paragraph.
func CreateEpicRequest(projectKey, summary, description string) map[string]interface{} {
	fields := map[string]interface{}{
		"project":   map[string]interface{}{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]interface{}{"name": "Epic"},
	}
	if description != "" {
		fields["description"] = map[string]interface{}{
			"type":    "doc",
			"version": 1,
			"content": []interface{}{
				map[string]interface{}{
					"type": "paragraph",
					"content": []interface{}{
						map[string]interface{}{"type": "text", "text": description},
					},
				},
			},
		}
	}
	return map[string]interface{}{"fields": fields}
}

func CreateSprintRequest(name string, boardID int) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"originBoardId": boardID,
	}
}
