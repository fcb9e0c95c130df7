package constants

const (
	HeaderAuthorizationKey = "Authorization"
	HeaderProjectIDKey     = "Project-ID"
	HeaderAccountIDKey     = "Account-ID"
	HeaderRequestIDKey     = "X-Request-ID"
)

const GatewayServiceName = "Contest-Gateway"

const (
	ContextUserClaimsKey = "X-Contest-User-Claims"
	ContextRequestIDKey  = "X-Contest-Request-ID"
)

const APIPrefix = "/api"

const (
	ActiveContestsPath   = "/contests/active/"                  // 活动中的比赛
	ArchiveContestsPath  = "/contests/archive/"                 // 归档比赛
	ContestDetailsPath   = "/contests/:contest_id/"             // 比赛详情
	ContestTasksPath     = "/contests/:contest_id/task/"        // 比赛的报名列表
	ExportContestPath    = "/contests/:contest_id/task/export/" // 导出比赛报名
	CreateUserTaskPath   = "/contests/user/my/task/"            // 报名比赛
	QuitUserTaskPath     = "/contests/user/my/task/:task_id/"   // 退出比赛
	SubmitSolutionPath   = "/contests/user/my/solution/"        // 提交作品
	UserTasksPath        = "/contests/user/my/tasks/"           // 我的报名
	UserHistoryPath      = "/contests/user/my/history/"         // 我的参赛历史
	OtherUserHistoryPath = "/contests/user/:user_id/history/"   // 指定用户的参赛历史
	ConfigsPath          = "/configs/:type/"                    // 配置透传
)
