package redisrepo

import "fmt"

const (
	USER_KEY           = "user:%s"                 // <userID>
	RESOLVED_ID_KEY    = "resolved-id:%s"          // <identifier>
	SEARCH_RESULTS_KEY = "search-results:%s:%d:%d" // <any word>:<limit>:<offset>
)

func UserKey(userID string) string {
	return fmt.Sprintf(USER_KEY, userID)
}

func ResolvedIDKey(identifier string) string {
	return fmt.Sprintf(RESOLVED_ID_KEY, identifier)
}

func SearchResultsKey(word string, limit int, offset int) string {
	return fmt.Sprintf(SEARCH_RESULTS_KEY, word, limit, offset)
}
