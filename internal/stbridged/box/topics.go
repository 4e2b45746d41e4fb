package box

// Topic layout, all scoped under the household namespace:
//
//	{household}                    peer presence announcements
//	{household}/+/status           status envelopes for every box
//	{household}/{boxId}            direct command channel to one box
//	{household}/{boxId}/status     direct status channel from one box
//	{household}/{clientId}         box-addressed responses for this client

func householdTopic(household string) string {
	return household
}

func wildcardStatusTopic(household string) string {
	return household + "/+/status"
}

func deviceTopic(household, id string) string {
	return household + "/" + id
}

func deviceStatusTopic(household, id string) string {
	return household + "/" + id + "/status"
}
