package cache

import "strconv"

func EventKey(id int64) string {
	return "events:v1:" + strconv.FormatInt(id, 10)
}
