package sweeper

import (
	"time"

	"quickmeet-api/core/cache"
	"quickmeet-api/core/database"
	chatroomService "quickmeet-api/modules/chatroom/service"
	meetupRepo "quickmeet-api/modules/meetup/repository"
	meetupService "quickmeet-api/modules/meetup/service"
	"quickmeet-api/modules/sweeper/service"

	"github.com/hibiken/asynq"
)

// Init builds the sweeper service and registers its task handler on the
// asynq mux. The schedule itself is registered by the server.
func Init(mux *asynq.ServeMux, db database.IDatabase, meetups meetupService.MeetupServiceInterface, chatrooms chatroomService.ChatroomServiceInterface, c *cache.Cache, interval time.Duration) service.SweeperServiceInterface {
	repo := meetupRepo.NewMeetupRepository(db)
	svc := service.NewSweeperService(meetups, repo, chatrooms, c, interval)

	mux.HandleFunc(TypeExpirySweep, HandleExpirySweep(svc))

	return svc
}
