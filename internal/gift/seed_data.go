package gift

import (
	"strconv"
	"time"
)

type taskTemplate struct {
	title string
	note  string
}

// dailyTemplates are created for every new day.
var dailyTemplates = []taskTemplate{
	{"Take a 5-minute walk outside", "Fresh air helps clear your mind."},
	{"Drink a glass of water", "Stay hydrated, stay healthy."},
	{"Send a kind message to someone", "Old friends deserve a warm hello."},
	{"Organize one small area", "A clean space brings peace."},
	{"Write down one thing you're grateful for", "Gratitude opens the heart."},
}

// historyTemplates fill the demo's past days.
var historyTemplates = []taskTemplate{
	{"Take a morning walk", "Fresh air energizes the day"},
	{"Drink water", "Staying hydrated"},
	{"Read for 20 minutes", "Feeding the mind"},
	{"Practice gratitude", "Appreciating the little things"},
	{"Stretch & breathe", "Body needs movement"},
	{"Tidy workspace", "Clear space, clear mind"},
	{"Call a friend", "Maintaining connections"},
	{"Cook a healthy meal", "Nourishing the body"},
	{"Write in journal", "Reflection brings clarity"},
	{"Listen to music", "Sound heals the soul"},
}

type goalTemplate struct {
	title     string
	note      string
	totalDays int
	rate      float64
	reward    Reward
}

func unsplash(photo string, w, h int) string {
	return "https://images.unsplash.com/" + photo + "?w=" + strconv.Itoa(w) + "&h=" + strconv.Itoa(h) + "&fit=crop"
}

var demoGoals = []goalTemplate{
	{"🏃 Run 5km every day", "Building endurance and discipline", 30, 0.7, Reward{
		Title: "New Running Shoes", Description: "Treat yourself to professional running gear!",
		ImageURL: unsplash("photo-1542291026-7eec264c27ff", 400, 300),
	}},
	{"📚 Read 30 pages daily", "Expanding knowledge and imagination", 30, 0.85, Reward{
		Title: "Buy 3 New Books", Description: "Get those books you've been wanting!",
		ImageURL: unsplash("photo-1512820790803-83ca734da794", 400, 300),
	}},
	{"🧘 Meditate for 10 minutes", "Cultivating inner peace and mindfulness", 21, 0.6, Reward{
		Title: "Meditation Cushion", Description: "A comfortable zafu for your practice",
		ImageURL: unsplash("photo-1545389336-cf090694435e", 400, 300),
	}},
	{"💌 Write a love note", "Expressing gratitude and affection daily", 30, 0.9, Reward{
		Title: "Romantic Dinner Date", Description: "A special evening to celebrate your love",
		ImageURL: unsplash("photo-1514933651103-005eec06c04b", 400, 300),
	}},
	{"💻 Code for 2 hours", "Learning new programming skills", 30, 0.75, Reward{
		Title: "Mechanical Keyboard", Description: "Upgrade your coding setup!",
		ImageURL: unsplash("photo-1587829741301-dc798b83add3", 400, 300),
	}},
	{"💪 Workout at the gym", "Building strength and health", 30, 0.65, Reward{
		Title: "Fitness Tracker Watch", Description: "Track your progress with smart tech!",
		ImageURL: unsplash("photo-1575311373937-040b8e1fd5b6", 400, 300),
	}},
}

type videoTemplate struct {
	title       string
	description string
	photo       string
	tasks       int
	warmth      int
	age         time.Duration
}

const oneDay = 24 * time.Hour

var demoVideos = []videoTemplate{
	{"Journey of Growth", "47 tasks completed, 30 warmth collected. Every step counts.", "photo-1536440136628-849c177e76a1", 47, 30, 7 * oneDay},
	{"Moments That Matter", "A visual celebration of your 3-day streak and 52 achievements.", "photo-1492691527719-9d1e07e534b4", 52, 35, 5 * oneDay},
	{"Steps Forward", "Capturing 39 moments of growth with 28 units of warmth.", "photo-1501594907352-04cda38ebc29", 39, 28, 3 * oneDay},
	{"Life in Motion", "3 days of showing up, 44 tasks conquered.", "photo-1469854523086-cc02fe5d8800", 44, 32, 1 * oneDay},
	{"Progress Chronicle", "A visual story of your 3-day journey with 56 achievements and 38 warmth.", "photo-1506905925346-21bda4d32df4", 56, 38, 10 * oneDay},
	{"Dance of Days", "61 tasks completed with dedication. Your warmth shines at 42.", "photo-1511593358241-7eea1f3c84e5", 61, 42, 14 * oneDay},
}

type friendTemplate struct {
	name       string
	avatar     string
	warmth     int
	streak     int
	lastActive time.Duration
	videos     []videoTemplate
}

var demoFriends = []friendTemplate{
	{"Emma Chen", "photo-1438761681033-6461ffad8d80", 85, 12, 2 * time.Hour, []videoTemplate{
		{"Morning Routine Mastery", "72 tasks completed, warmth level at 85", "photo-1506748686214-e9df14d4d9d0", 72, 85, 1 * oneDay},
		{"Fitness Journey Week 2", "Consistency is key - 12 day streak!", "photo-1517836357463-d25dfeac3438", 65, 78, 3 * oneDay},
	}},
	{"Alex Kim", "photo-1507003211169-0a1dd7228f2d", 120, 21, 30 * time.Minute, []videoTemplate{
		{"Coding Marathon Success", "3 weeks of daily commits!", "photo-1461749280684-dccba630e2f6", 98, 120, 6 * time.Hour},
	}},
	{"Sophie Lee", "photo-1487412720507-e7ab37603c6f", 150, 30, 10 * time.Minute, []videoTemplate{
		{"30-Day Yoga Journey Complete", "A whole month of daily practice!", "photo-1544367567-0f2fcb009e0b", 125, 150, 3 * time.Hour},
		{"Art Every Day - Week 4", "30 days of creative expression", "photo-1513364776144-60967b0f800f", 118, 145, 1 * oneDay},
	}},
	{"Jake Thompson", "photo-1500648767791-00dcc994a43e", 95, 15, 5 * time.Hour, []videoTemplate{
		{"Guitar Practice Daily", "15 days of consistent practice", "photo-1510915361894-db8b60106cb1", 78, 95, 12 * time.Hour},
	}},
	{"Mia Rodriguez", "photo-1494790108377-be9c29b29330", 45, 5, 1 * oneDay, []videoTemplate{
		{"Reading Challenge Started", "Building the habit one page at a time", "photo-1481627834876-b7833e8f5570", 32, 45, 2 * oneDay},
		{"Meditation Moments", "Finding peace in daily practice", "photo-1506126613408-eca07ce68773", 28, 38, 5 * oneDay},
	}},
	{"David Park", "photo-1472099645785-5658abf4ff4e", 62, 8, 3 * oneDay, []videoTemplate{
		{"Photography Challenge Week 1", "Capturing beauty every day", "photo-1452587925148-ce544e77e70d", 48, 62, 4 * oneDay},
		{"Learning Spanish Daily", "Duolingo streak going strong", "photo-1434030216411-0b793f4b4173", 42, 55, 8 * oneDay},
	}},
	{"Olivia Martinez", "photo-1534528741775-53994a69daeb", 105, 18, 45 * time.Minute, []videoTemplate{
		{"Plant Care Routine", "Nurturing 18 days of green growth", "photo-1466692476868-aef1dfb1e735", 82, 105, 8 * time.Hour},
		{"Baking Adventures", "New recipe every other day", "photo-1486427944299-d1955d23e34d", 75, 98, 2 * oneDay},
		{"Evening Walks", "Exploring the neighborhood daily", "photo-1470770841072-f978cf4d019e", 68, 90, 5 * oneDay},
	}},
	{"Liam Foster", "photo-1506794778202-cad84cf45f1d", 78, 10, 15 * time.Minute, []videoTemplate{
		{"Podcast Production Journey", "Recording daily episodes for 10 days", "photo-1478737270239-2f02b77fc618", 65, 78, 4 * time.Hour},
		{"Writing Habit Building", "1000 words every morning", "photo-1455390582262-044cdead277a", 58, 70, 3 * oneDay},
	}},
	{"Zara Williams", "photo-1488426862026-3ee34a7d66df", 138, 25, 20 * time.Minute, []videoTemplate{
		{"Dance Practice Every Day", "25 days of movement and rhythm", "photo-1508700115892-45ecd05ae2ad", 110, 138, 6 * time.Hour},
		{"Healthy Meal Prep", "Nutrition and wellness journey", "photo-1490645935967-10de6ba17061", 102, 130, 2 * oneDay},
		{"Mindfulness & Stretching", "Starting each day with intention", "photo-1447452001602-7090c7ab2db3", 95, 122, 5 * oneDay},
	}},
	{"Marcus Chen", "photo-1463453091185-61582044d556", 52, 7, 6 * time.Hour, []videoTemplate{
		{"Basketball Training Week 1", "Shooting hoops every evening", "photo-1546519638-68e109498ffc", 38, 52, 1 * oneDay},
		{"Study Session Consistency", "Exam prep in full swing", "photo-1456513080510-7bf3a84b82f8", 35, 48, 4 * oneDay},
	}},
}

// videoTitles and videoDescriptions are the rotation used by GenerateAIVideo.
var videoTitles = []string{
	"Journey of Growth",
	"Moments That Matter",
	"Steps Forward",
	"Your Story Unfolds",
	"Life in Motion",
	"Progress Chronicle",
	"Dance of Days",
}

var videoDescriptions = []func(completed, warmth, streak int) string{
	func(completed, warmth, _ int) string {
		return strconv.Itoa(completed) + " tasks completed, " + strconv.Itoa(warmth) + " warmth collected. Every step counts."
	},
	func(completed, _, streak int) string {
		return "A visual celebration of your " + strconv.Itoa(streak) + "-day streak and " + strconv.Itoa(completed) + " achievements."
	},
	func(completed, warmth, _ int) string {
		return "Capturing " + strconv.Itoa(completed) + " moments of growth with " + strconv.Itoa(warmth) + " units of warmth."
	},
	func(completed, _, streak int) string {
		return strconv.Itoa(streak) + " days of showing up, " + strconv.Itoa(completed) + " tasks conquered."
	},
}
