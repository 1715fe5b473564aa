package constant

// Actor roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole checks if the given role is known
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Order status values
const (
	OrderStatusPending               = "pending"
	OrderStatusProcessing            = "processing"
	OrderStatusShipped               = "shipped"
	OrderStatusCompleted             = "completed"
	OrderStatusCancellationRequested = "cancellation_requested"
	OrderStatusCancelled             = "cancelled"
)

// Shipment tracking status values
const (
	TrackingStatusDelivered = "delivered"
	TrackingStatusOnProcess = "on_process"
	TrackingStatusUnknown   = "unknown"
)

// Order event types published to the event stream
const (
	OrderEventCreated       = "order.created"
	OrderEventStatusChanged = "order.status_changed"
)

// Conversation id prefix
const (
	SupportConversationPrefix = "cs_"
)

// MaxPreviewLength is the max length of the conversation last-message preview
const MaxPreviewLength = 80

// Redis key patterns (without prefix, use RedisKey() to get full key)
const (
	redisKeyToken   = "token:%s"    // token:{user_id}
	redisKeyOnline  = "online:%s"   // online:{room_id}
	redisKeySeqConv = "seq:conv:%s" // seq:conv:{conversation_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "kmsup:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string           { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string          { return redisKeyPrefix + redisKeyOnline }
func RedisKeySeqConversation() string { return redisKeyPrefix + redisKeySeqConv }
