package adapter

import (
	"time"

	"github.com/park285/guild-status-bot-go/internal/constants"
)

// StaticProfile: /developer, /owner 가 보여주는 고정 프로필
type StaticProfile struct {
	TitlePrefix string
	Username    string
	Intro       string
	Role        string
	JoinedAt    time.Time
	About       string
	FunFact     string
	SocialLinks string
	Color       int
	ImageURL    string
	Thumbnail   string
	Footer      string
}

const profileBannerURL = "https://cdn.discordapp.com/attachments/1249672084137705544/1399389644193529916/Purple_Aquamarine_Art_Pixel_Art_Discord_Profile_Banner.gif?ex=6888d2aa&is=6887812a&hm=33cd17cb3703cafad30cf98c50791ff9c66f5fd78c7259e60c4985c3049b2ce9"

// DeveloperProfile 는 패키지 변수다.
var DeveloperProfile = StaticProfile{
	TitlePrefix: "Bot Developer Profile",
	Username:    "Xen",
	Intro:       "Meet %s, the developer who brought this bot to life!",
	Role:        "Web Dev, FiveM Dev",
	JoinedAt:    time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
	About:       "Expert in HTML, TAILWIND CSS, React.js, Bootstrap, Laravel, Lua, and Discord bot development. Dedicated to creating seamless and engaging server experiences with a focus on performance and user interaction.",
	FunFact:     "Enjoys coding while listening to Spotify!",
	SocialLinks: "[GitHub](https://github.com/httpxen) | [Instagram](https://www.instagram.com/drei_xen/) | [LinkedIn](https://www.linkedin.com/in/tom-andrei-opulencia-1b5b90314/)",
	Color:       constants.EmbedColors.Orange,
	ImageURL:    profileBannerURL,
	Thumbnail:   "https://media.discordapp.net/attachments/1249672084137705544/1399394518758985829/Drei.jpg?ex=6888d734&is=688785b4&hm=a113deb86a128f1f6e96abb76599382b621c789f92412f0e750b8e34989f3964&format=webp&width=775&height=780",
	Footer:      "Bot Developer Info",
}

// OwnerProfile 는 패키지 변수다.
var OwnerProfile = StaticProfile{
	TitlePrefix: "Bot Owner Profile",
	Username:    "Prestige Beta",
	Intro:       "Meet %s, the visionary behind this server!",
	Role:        "Discord Owner & Game Developer",
	JoinedAt:    time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
	About:       "Bachelor of Science in Entertainment and Multimedia Computing. Passionate about crafting immersive game experiences and building vibrant Discord communities.",
	FunFact:     "Loves pixel art and retro-style game development!",
	SocialLinks: "[GitHub](https://github.com/PrestigeBeta) | [Instagram](https://www.instagram.com/lenarddoesart/) | [LinkedIn](https://www.linkedin.com/in/lenard-prestige/)",
	Color:       constants.EmbedColors.Green,
	ImageURL:    profileBannerURL,
	Thumbnail:   "https://media.discordapp.net/attachments/1249672084137705544/1399391951786344558/Lenard.jpg?ex=6888d4d0&is=68878350&hm=78d4812b618034a4429bc82d88579b3e6c38a1e7a7e21162b9eaaa0e7ac11c95&format=webp",
	Footer:      "Bot Owner Info",
}
