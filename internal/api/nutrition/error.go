package nutrition

import "errors"

var ErrFoodNotFound = errors.New("food not found in the nutrition reference")
